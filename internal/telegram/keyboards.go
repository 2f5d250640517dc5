package telegram

// Button is one inline-keyboard button.
type Button struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
}

// InlineKeyboard is a grid of buttons attached to a message.
type InlineKeyboard struct {
	InlineKeyboard [][]Button `json:"inline_keyboard"`
}

// MainMenu is the top-level admin menu.
func MainMenu() *InlineKeyboard {
	return &InlineKeyboard{InlineKeyboard: [][]Button{
		{
			{Text: "📊 Status", CallbackData: "status"},
			{Text: "👥 Users", CallbackData: "users_menu"},
		},
		{
			{Text: "🎫 Key Manager", CallbackData: "keys_menu"},
			{Text: "📢 Broadcasts", CallbackData: "broadcasts_menu"},
		},
		{
			{Text: "ℹ️ Help", CallbackData: "help"},
		},
	}}
}

// KeysMenu offers key listing and one-tap generation shortcuts.
func KeysMenu() *InlineKeyboard {
	return &InlineKeyboard{InlineKeyboard: [][]Button{
		{
			{Text: "📝 List Unused", CallbackData: "keys_list"},
		},
		{
			{Text: "➕ Gen 3 Days", CallbackData: "gen_3d"},
			{Text: "➕ Gen 7 Days", CallbackData: "gen_7d"},
		},
		{
			{Text: "➕ Gen 30 Days", CallbackData: "gen_30d"},
			{Text: "➕ Gen Lifetime", CallbackData: "gen_lifetime"},
		},
		{
			{Text: "🌍 Gen Universal", CallbackData: "gen_universal"},
			{Text: "♾️ Gen Reusable", CallbackData: "gen_reusable"},
		},
		{
			{Text: "🔙 Back to Menu", CallbackData: "main_menu"},
		},
	}}
}

// UsersMenu offers the user dashboard views.
func UsersMenu() *InlineKeyboard {
	return &InlineKeyboard{InlineKeyboard: [][]Button{
		{
			{Text: "📊 Dashboard", CallbackData: "status"},
		},
		{
			{Text: "🔙 Back to Menu", CallbackData: "main_menu"},
		},
	}}
}

// BroadcastsMenu offers broadcast listing.
func BroadcastsMenu() *InlineKeyboard {
	return &InlineKeyboard{InlineKeyboard: [][]Button{
		{
			{Text: "📢 List Broadcasts", CallbackData: "broadcasts_list"},
		},
		{
			{Text: "🔙 Back to Menu", CallbackData: "main_menu"},
		},
	}}
}

// BackButton is a single back-navigation row.
func BackButton() *InlineKeyboard {
	return &InlineKeyboard{InlineKeyboard: [][]Button{
		{{Text: "🔙 Back", CallbackData: "main_menu"}},
	}}
}
