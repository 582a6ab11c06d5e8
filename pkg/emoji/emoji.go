// Package emoji maps :shortcode: names to emoji characters.
package emoji

import (
	"sort"
	"sync"

	"github.com/derekparker/trie"
)

// MaxShortcodeLength bounds the names Lookup accepts.
const MaxShortcodeLength = 64

//nolint:gochecknoglobals // built once on first use
var (
	index     *trie.Trie
	indexOnce sync.Once
)

func table() *trie.Trie {
	indexOnce.Do(func() {
		index = trie.New()
		for name, chars := range shortcodes {
			index.Add(name, chars)
		}
	})
	return index
}

// Lookup returns the emoji for a shortcode given without colons.
func Lookup(name string) (string, bool) {
	if name == "" || len(name) > MaxShortcodeLength {
		return "", false
	}
	node, ok := table().Find(name)
	if !ok {
		return "", false
	}
	chars, ok := node.Meta().(string)
	return chars, ok
}

// Search returns the known shortcodes that start with prefix, sorted.
func Search(prefix string) []string {
	if prefix == "" {
		names := make([]string, 0, len(shortcodes))
		for name := range shortcodes {
			names = append(names, name)
		}
		sort.Strings(names)
		return names
	}

	names := table().PrefixSearch(prefix)
	sort.Strings(names)
	return names
}

//nolint:gochecknoglobals // lookup table
var shortcodes = map[string]string{
	"+1":                       "👍",
	"-1":                       "👎",
	"100":                      "💯",
	"airplane":                 "✈️",
	"alarm_clock":              "⏰",
	"angry":                    "😠",
	"apple":                    "🍎",
	"arrow_down":               "⬇️",
	"arrow_left":               "⬅️",
	"arrow_right":              "➡️",
	"arrow_up":                 "⬆️",
	"art":                      "🎨",
	"baby":                     "👶",
	"balloon":                  "🎈",
	"bangbang":                 "‼️",
	"beer":                     "🍺",
	"bell":                     "🔔",
	"bike":                     "🚲",
	"birthday":                 "🎂",
	"blush":                    "😊",
	"bomb":                     "💣",
	"book":                     "📖",
	"bookmark":                 "🔖",
	"boom":                     "💥",
	"broken_heart":             "💔",
	"bug":                      "🐛",
	"bulb":                     "💡",
	"calendar":                 "📆",
	"camera":                   "📷",
	"car":                      "🚗",
	"cat":                      "🐱",
	"chart_with_upwards_trend": "📈",
	"check":                    "✔️",
	"clap":                     "👏",
	"clipboard":                "📋",
	"cloud":                    "☁️",
	"coffee":                   "☕",
	"computer":                 "💻",
	"confused":                 "😕",
	"construction":             "🚧",
	"cool":                     "🆒",
	"cry":                      "😢",
	"dart":                     "🎯",
	"disappointed":             "😞",
	"dog":                      "🐶",
	"dizzy":                    "💫",
	"earth_americas":           "🌎",
	"email":                    "📧",
	"exclamation":              "❗",
	"eyes":                     "👀",
	"fire":                     "🔥",
	"flushed":                  "😳",
	"gear":                     "⚙️",
	"ghost":                    "👻",
	"gift":                     "🎁",
	"grin":                     "😁",
	"grinning":                 "😀",
	"hammer":                   "🔨",
	"hand":                     "✋",
	"heart":                    "❤️",
	"heart_eyes":               "😍",
	"heavy_check_mark":         "✔️",
	"heavy_minus_sign":         "➖",
	"heavy_plus_sign":          "➕",
	"hourglass":                "⌛",
	"house":                    "🏠",
	"hugs":                     "🤗",
	"information_source":       "ℹ️",
	"innocent":                 "😇",
	"joy":                      "😂",
	"key":                      "🔑",
	"kiss":                     "💋",
	"laughing":                 "😆",
	"link":                     "🔗",
	"lock":                     "🔒",
	"mag":                      "🔍",
	"mailbox":                  "📫",
	"memo":                     "📝",
	"moon":                     "🌙",
	"muscle":                   "💪",
	"neutral_face":             "😐",
	"no_entry":                 "⛔",
	"ok":                       "🆗",
	"ok_hand":                  "👌",
	"package":                  "📦",
	"pencil":                   "📝",
	"pencil2":                  "✏️",
	"point_down":               "👇",
	"point_left":               "👈",
	"point_right":              "👉",
	"point_up":                 "☝️",
	"pray":                     "🙏",
	"pushpin":                  "📌",
	"question":                 "❓",
	"rainbow":                  "🌈",
	"raised_hands":             "🙌",
	"recycle":                  "♻️",
	"rocket":                   "🚀",
	"rofl":                     "🤣",
	"rose":                     "🌹",
	"scream":                   "😱",
	"see_no_evil":              "🙈",
	"shield":                   "🛡️",
	"shrug":                    "🤷",
	"sleeping":                 "😴",
	"smile":                    "😄",
	"smiley":                   "😃",
	"smirk":                    "😏",
	"snowflake":                "❄️",
	"sob":                      "😭",
	"sparkles":                 "✨",
	"star":                     "⭐",
	"stop_sign":                "🛑",
	"sun_with_face":            "🌞",
	"sunglasses":               "😎",
	"sunny":                    "☀️",
	"sweat_smile":              "😅",
	"tada":                     "🎉",
	"thinking":                 "🤔",
	"thumbsdown":               "👎",
	"thumbsup":                 "👍",
	"trophy":                   "🏆",
	"umbrella":                 "☂️",
	"unlock":                   "🔓",
	"warning":                  "⚠️",
	"wave":                     "👋",
	"white_check_mark":         "✅",
	"wink":                     "😉",
	"wrench":                   "🔧",
	"x":                        "❌",
	"yum":                      "😋",
	"zap":                      "⚡",
	"zzz":                      "💤",
}
