package icon

// Icon identifies a symbol in the registry.
type Icon int

const (
	Success Icon = iota
	Fail
	Warn
	Info
	Progress
	Search
	Download
	Music
	Mail
	Disk
	Question
)

var icons = map[Icon]*iconDef{
	Success: {
		emoji:   "✅",
		nerd:    "\uf00c",
		plain:   "✓",
		kaomoji: "(ᵔᴥᵔ)",
		squares: "🟩",
	},
	Fail: {
		emoji:   "❌",
		nerd:    "\uf00d",
		plain:   "✗",
		kaomoji: "(╯°□°)╯",
		squares: "🟥",
	},
	Warn: {
		emoji:   "⚠️",
		nerd:    "\uf071",
		plain:   "!",
		kaomoji: "(・_・;)",
		squares: "🟨",
	},
	Info: {
		emoji:   "ℹ️",
		nerd:    "\uf05a",
		plain:   "i",
		kaomoji: "(・ω・)",
		squares: "🟦",
	},
	Progress: {
		emoji:   "⏳",
		nerd:    "\uf254",
		plain:   "~",
		kaomoji: "(・・ )?",
		squares: "🟪",
	},
	Search: {
		emoji:   "🔍",
		nerd:    "\uf002",
		plain:   "?",
		kaomoji: "(⊙_◎)",
		squares: "🟦",
	},
	Download: {
		emoji:   "📥",
		nerd:    "\uf019",
		plain:   "↓",
		kaomoji: "(っ˘ڡ˘ς)",
		squares: "🟦",
	},
	Music: {
		emoji:   "🎵",
		nerd:    "\uf001",
		plain:   "♪",
		kaomoji: "ヽ(⌐■_■)ノ♪",
		squares: "🟪",
	},
	Mail: {
		emoji:   "📧",
		nerd:    "\uf0e0",
		plain:   "@",
		kaomoji: "(＾▽＾)っ✉",
		squares: "🟧",
	},
	Disk: {
		emoji:   "💾",
		nerd:    "\uf0c7",
		plain:   "#",
		kaomoji: "(￣▽￣)ノ",
		squares: "🟫",
	},
	Question: {
		emoji:   "❓",
		nerd:    "\uf128",
		plain:   "?",
		kaomoji: "(°ロ°)?",
		squares: "🟨",
	},
}
