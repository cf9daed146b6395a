package telegram

// Button labels of the main menu
const (
	BtnMatches  = "🏠 My matches"
	BtnGenerate = "🔍 Find roommates"
	BtnHelp     = "❓ Help"
)

const (
	MsgWelcome = "👋 <b>Welcome to Roommatch!</b>\n\n" +
		"Link this chat to your account to see and answer your roommate matches here.\n" +
		"Open the app, create a Telegram link code, then send:\n<code>/link CODE</code>"
	MsgWelcomeBack = "👋 Welcome back, <b>%s</b>!"
	MsgHelp        = "<b>Commands</b>\n" +
		"/link CODE - link this chat to your account\n" +
		"/matches - list your matches\n" +
		"/generate - look for new compatible roommates\n" +
		"/help - show this message"
	MsgNotLinked       = "🔗 This chat is not linked to an account yet. Send <code>/link CODE</code> with a code from the app."
	MsgLinkUsage       = "🔑 Send the code from the app too, for example: <code>/link AB12CD34</code>"
	MsgLinked          = "✅ Linked to the account of <b>%s</b>."
	MsgLinkFirst       = "Link your account first with /link"
	MsgLinkFailed      = "❌ That code is invalid or expired. Create a new one in the app."
	MsgNoMatches       = "No matches yet. Try /generate to look for compatible roommates."
	MsgGenerated       = "✨ Found %d new matches."
	MsgGeneratedNone   = "No new compatible roommates right now. Check back later!"
	MsgProfileRequired = "📝 Complete your profile in the app first."
	MsgError           = "⚠️ Something went wrong, please try again later."
	MsgMatchNotFound   = "Match not found"
	MsgMatchForbidden  = "This match is not yours"
	MsgMatchAnswered   = "This match was already answered"
	MsgAccepted        = "✅ Match accepted"
	MsgRejected        = "❌ Match rejected"
)
