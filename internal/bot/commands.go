package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zenibaba/keyauth/internal/models"
	"github.com/zenibaba/keyauth/internal/telegram"
)

const helpText = "*🔐 ZEXXY Key Manager Bot*\n\n" +
	"*Commands:*\n" +
	"`/gen <duration> <amount> [note]` - Generate keys\n" +
	"`/genuniversal <duration> <amount>` - Universal keys\n" +
	"`/genreusable <duration> <amount>` - Reusable keys\n" +
	"`/status` - System stats\n" +
	"`/keys` - List unused keys\n" +
	"`/broadcast [target] <msg>` - Send notification\n" +
	"`/extend <user> <days>` - Extend time\n\n" +
	"*Duration: 1d, 1w, 1m, 1y, lifetime*"

// dispatch maps a slash command onto one engine operation and formats
// the reply. An empty reply text suppresses the response.
func (b *Bot) dispatch(ctx context.Context, cmd string, args []string) (string, *telegram.InlineKeyboard) {
	switch cmd {
	case "/start":
		return helpText, telegram.MainMenu()
	case "/status":
		return b.statusText(ctx), nil
	case "/keys":
		return b.unusedKeysText(ctx), nil
	case "/gen":
		return b.generate(ctx, args, models.KindStandard), nil
	case "/genuniversal":
		return b.generate(ctx, args, models.KindUniversal), nil
	case "/genreusable":
		return b.generate(ctx, args, models.KindReusable), nil
	case "/activate":
		return b.activate(ctx, args), nil
	case "/login":
		return b.login(ctx, args), nil
	case "/removekey":
		return b.singleArgOp(ctx, args, b.keys.Remove, "/removekey <key>"), nil
	case "/bankey":
		return b.singleArgOp(ctx, args, b.keys.Ban, "/bankey <key>"), nil
	case "/unbankey":
		return b.singleArgOp(ctx, args, b.keys.Unban, "/unbankey <key>"), nil
	case "/resethwid":
		return b.resetHWID(ctx, args), nil
	case "/resetpass":
		return b.resetPassword(ctx, args), nil
	case "/banuser":
		return b.singleArgOp(ctx, args, b.users.Ban, "/banuser <user>"), nil
	case "/unbanuser":
		return b.singleArgOp(ctx, args, b.users.Unban, "/unbanuser <user>"), nil
	case "/deleteuser":
		return b.singleArgOp(ctx, args, b.users.Delete, "/deleteuser <user>"), nil
	case "/extend":
		return b.extend(ctx, args), nil
	case "/broadcast":
		return b.broadcast(ctx, args), nil
	case "/broadcasts":
		return b.broadcastsText(ctx), nil
	case "/togglebroadcast":
		return b.toggleBroadcast(ctx, args), nil
	case "/deletebroadcast":
		return b.deleteBroadcast(ctx, args), nil
	default:
		return "❓ Unknown command. Type `/start` for help.", nil
	}
}

// menuAction handles inline-keyboard callback data.
func (b *Bot) menuAction(ctx context.Context, data string) (string, *telegram.InlineKeyboard) {
	switch data {
	case "main_menu":
		return "*🔐 ZEXXY Key Manager*", telegram.MainMenu()
	case "keys_menu":
		return "*🎫 Key Manager*", telegram.KeysMenu()
	case "users_menu":
		return "*👥 Users*", telegram.UsersMenu()
	case "broadcasts_menu":
		return "*📢 Broadcasts*", telegram.BroadcastsMenu()
	case "help":
		return helpText, telegram.BackButton()
	case "status":
		return b.statusText(ctx), telegram.BackButton()
	case "keys_list":
		return b.unusedKeysText(ctx), telegram.BackButton()
	case "broadcasts_list":
		return b.broadcastsText(ctx), telegram.BackButton()
	case "gen_3d":
		return b.generate(ctx, []string{"3d", "1"}, models.KindStandard), telegram.BackButton()
	case "gen_7d":
		return b.generate(ctx, []string{"7d", "1"}, models.KindStandard), telegram.BackButton()
	case "gen_30d":
		return b.generate(ctx, []string{"30d", "1"}, models.KindStandard), telegram.BackButton()
	case "gen_lifetime":
		return b.generate(ctx, []string{"lifetime", "1"}, models.KindStandard), telegram.BackButton()
	case "gen_universal":
		return b.generate(ctx, []string{"30d", "1"}, models.KindUniversal), telegram.BackButton()
	case "gen_reusable":
		return b.generate(ctx, []string{"30d", "1"}, models.KindReusable), telegram.BackButton()
	default:
		return "", nil
	}
}

func (b *Bot) statusText(ctx context.Context) string {
	o, err := b.keys.Overview(ctx)
	if err != nil {
		return errReply(err)
	}
	return fmt.Sprintf("📊 *System Status*\n\n👥 Users: %d\n🎫 Keys: %d\n✅ Unused: %d",
		o.Users, o.Keys, o.UnusedKeys)
}

func (b *Bot) unusedKeysText(ctx context.Context) string {
	unused, err := b.keys.ListUnused(ctx)
	if err != nil {
		return errReply(err)
	}
	if len(unused) == 0 {
		return "⚠️ No unused keys"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*🎫 Unused Keys (%d)*\n\n", len(unused))
	for i, k := range unused {
		if i == 10 {
			fmt.Fprintf(&sb, "\n_...%d more_", len(unused)-10)
			break
		}
		fmt.Fprintf(&sb, "`%s`\n", k.Key)
	}
	return sb.String()
}

func (b *Bot) generate(ctx context.Context, args []string, kind models.KeyKind) string {
	if len(args) < 2 {
		return "⚠️ Usage: `/gen <duration> <amount> [note]`"
	}
	amount, err := strconv.Atoi(args[1])
	if err != nil {
		return "❌ Amount: 1-50"
	}

	keys, res, err := b.keys.Generate(ctx, args[0], amount, strings.Join(args[2:], " "), kind)
	if err != nil {
		return errReply(err)
	}
	if !res.Success {
		return "❌ " + res.Message
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ *Generated %d Keys*\n\n", len(keys))
	for _, k := range keys {
		fmt.Fprintf(&sb, "`%s`\n", k.Key)
	}
	return sb.String()
}

func (b *Bot) activate(ctx context.Context, args []string) string {
	if len(args) < 3 {
		return "⚠️ Usage: `/activate <key> <user> <pass> [hwid]`"
	}
	hwid := ""
	if len(args) > 3 {
		hwid = args[3]
	}

	user, res, err := b.keys.Activate(ctx, args[0], args[1], args[2], hwid)
	if err != nil {
		return errReply(err)
	}
	if !res.Success {
		return "❌ " + res.Message
	}
	return fmt.Sprintf("✅ *%s*\n\nUser: `%s`\nExpiry: %s", res.Message, user.Username, formatExpiry(user.Expiry))
}

func (b *Bot) login(ctx context.Context, args []string) string {
	if len(args) < 3 {
		return "⚠️ Usage: `/login <user> <pass> <hwid>`"
	}
	user, res, err := b.users.VerifyLogin(ctx, args[0], args[1], args[2])
	if err != nil {
		return errReply(err)
	}
	if !res.Success {
		return "❌ " + res.Message
	}
	return fmt.Sprintf("✅ *%s*\n\nUser: `%s`\nRank: %s\nExpiry: %s",
		res.Message, user.Username, user.Rank, formatExpiry(user.Expiry))
}

// singleArgOp runs an engine operation that takes one key/username
// argument and formats its Result.
func (b *Bot) singleArgOp(ctx context.Context, args []string, op func(context.Context, string) (models.Result, error), usage string) string {
	if len(args) < 1 {
		return "⚠️ Usage: `" + usage + "`"
	}
	res, err := op(ctx, args[0])
	if err != nil {
		return errReply(err)
	}
	if !res.Success {
		return "❌ " + res.Message
	}
	return "✅ " + res.Message
}

func (b *Bot) resetHWID(ctx context.Context, args []string) string {
	if len(args) < 1 {
		return "⚠️ Usage: `/resethwid <user>`"
	}
	old, res, err := b.users.ResetHWID(ctx, args[0])
	if err != nil {
		return errReply(err)
	}
	if !res.Success {
		return "❌ " + res.Message
	}
	if old != nil {
		return fmt.Sprintf("✅ %s\n\nOld HWID: `%s`", res.Message, *old)
	}
	return "✅ " + res.Message
}

func (b *Bot) resetPassword(ctx context.Context, args []string) string {
	if len(args) < 2 {
		return "⚠️ Usage: `/resetpass <user> <newpass>`"
	}
	res, err := b.users.ResetPassword(ctx, args[0], args[1])
	if err != nil {
		return errReply(err)
	}
	if !res.Success {
		return "❌ " + res.Message
	}
	return "✅ " + res.Message
}

func (b *Bot) extend(ctx context.Context, args []string) string {
	if len(args) < 2 {
		return "⚠️ Usage: `/extend <user> <days>`"
	}
	days, err := strconv.Atoi(args[1])
	if err != nil {
		return "❌ Days must be number"
	}

	newExpiry, res, err := b.users.Extend(ctx, args[0], days)
	if err != nil {
		return errReply(err)
	}
	if !res.Success {
		return "❌ " + res.Message
	}
	return fmt.Sprintf("✅ Extended %d days for %s\n\nNew expiry: %s", days, args[0], formatExpiry(newExpiry))
}

func (b *Bot) broadcast(ctx context.Context, args []string) string {
	if len(args) < 1 {
		return "⚠️ Usage: `/broadcast [target] <message>`"
	}

	target := ""
	switch strings.ToUpper(args[0]) {
	case models.TargetAll, models.TargetUser, models.TargetVIP, models.TargetAdmin, models.TargetOwner:
		target = strings.ToUpper(args[0])
		args = args[1:]
	}
	if len(args) == 0 {
		return "⚠️ Usage: `/broadcast [target] <message>`"
	}

	br, res, err := b.broadcasts.Create(ctx, target, strings.Join(args, " "))
	if err != nil {
		return errReply(err)
	}
	if !res.Success {
		return "❌ " + res.Message
	}
	return fmt.Sprintf("✅ Broadcast created!\n\nID: `%s`\nTarget: %s", br.ID, br.Target)
}

func (b *Bot) broadcastsText(ctx context.Context) string {
	list, err := b.broadcasts.List(ctx)
	if err != nil {
		return errReply(err)
	}
	if len(list) == 0 {
		return "⚠️ No broadcasts"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "*📢 Broadcasts (%d)*\n\n", len(list))
	for _, br := range list {
		state := "off"
		if br.Active {
			state = "on"
		}
		fmt.Fprintf(&sb, "`%s` [%s] %s: %s\n", br.ID, state, br.Target, br.Message)
	}
	return sb.String()
}

func (b *Bot) toggleBroadcast(ctx context.Context, args []string) string {
	if len(args) < 1 {
		return "⚠️ Usage: `/togglebroadcast <id>`"
	}
	active, res, err := b.broadcasts.Toggle(ctx, args[0])
	if err != nil {
		return errReply(err)
	}
	if !res.Success {
		return "❌ " + res.Message
	}
	state := "inactive"
	if active {
		state = "active"
	}
	return fmt.Sprintf("✅ Broadcast `%s` is now %s", args[0], state)
}

func (b *Bot) deleteBroadcast(ctx context.Context, args []string) string {
	if len(args) < 1 {
		return "⚠️ Usage: `/deletebroadcast <id>`"
	}
	res, err := b.broadcasts.Delete(ctx, args[0])
	if err != nil {
		return errReply(err)
	}
	if !res.Success {
		return "❌ " + res.Message
	}
	return "✅ " + res.Message
}

func formatExpiry(expiry int64) string {
	if expiry == models.LifetimeExpiry {
		return "Lifetime"
	}
	return time.Unix(expiry, 0).UTC().Format("2006-01-02 15:04:05 UTC")
}
