// Package mention builds profile links for platform mentions such as
// @octocat[github].
package mention

import (
	"net/url"
	"strings"
)

// Resolver returns the profile URL of username on platform. ok is false
// for platforms it does not know.
type Resolver interface {
	ProfileURL(platform, username string) (url string, ok bool)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(platform, username string) (string, bool)

// ProfileURL calls f.
func (f ResolverFunc) ProfileURL(platform, username string) (string, bool) {
	return f(platform, username)
}

// Default resolves the built-in platform table.
//
//nolint:gochecknoglobals // stateless default
var Default Resolver = ResolverFunc(ProfileURL)

//nolint:gochecknoglobals // lookup table
var profileFormats = map[string]string{
	"github":    "https://github.com/%s",
	"gitlab":    "https://gitlab.com/%s",
	"bitbucket": "https://bitbucket.org/%s",
	"codeberg":  "https://codeberg.org/%s",

	"twitter":    "https://twitter.com/%s",
	"x":          "https://x.com/%s",
	"reddit":     "https://www.reddit.com/user/%s",
	"instagram":  "https://www.instagram.com/%s/",
	"snapchat":   "https://www.snapchat.com/@%s",
	"tiktok":     "https://www.tiktok.com/@%s",
	"youtube":    "https://www.youtube.com/@%s",
	"linkedin":   "https://www.linkedin.com/in/%s",
	"xing":       "https://www.xing.com/profile/%s",
	"facebook":   "https://www.facebook.com/%s",
	"threads":    "https://www.threads.net/@%s",
	"twitch":     "https://www.twitch.tv/%s",
	"soundcloud": "https://soundcloud.com/%s",
	"mixcloud":   "https://www.mixcloud.com/%s/",
	"telegram":   "https://t.me/%s",
	"vk":         "https://vk.com/%s",
	"vkontakte":  "https://vk.com/%s",

	"pinterest": "https://www.pinterest.com/%s/",
	"medium":    "https://medium.com/@%s",
	"tumblr":    "https://www.tumblr.com/%s",
	"quora":     "https://www.quora.com/profile/%s",
	"myspace":   "https://myspace.com/%s",
	"dribbble":  "https://dribbble.com/%s",
	"9gag":      "https://9gag.com/u/%s",
	"bluesky":   "https://bsky.app/profile/%s",
	"bsky":      "https://bsky.app/profile/%s",
	"likee":     "https://www.likee.video/@%s",

	"zhihu":       "https://www.zhihu.com/people/%s",
	"bilibili":    "https://space.bilibili.com/%s",
	"tieba":       "https://tieba.baidu.com/home/main/?un=%s",
	"baidutieba":  "https://tieba.baidu.com/home/main/?un=%s",
	"baidu-tieba": "https://tieba.baidu.com/home/main/?un=%s",
	"baidu_tieba": "https://tieba.baidu.com/home/main/?un=%s",

	// Instance-based platforms use a default instance.
	"mastodon": "https://mastodon.social/@%s",
	"pixelfed": "https://pixelfed.social/%s",

	"discord": "https://discord.com/users/%s",
}

// ProfileURL resolves the built-in platform table.
func ProfileURL(platform, username string) (string, bool) {
	format, ok := profileFormats[strings.ToLower(strings.TrimSpace(platform))]
	if !ok {
		return "", false
	}
	user := escapeSegment(strings.TrimSpace(username))
	if user == "" {
		return "", false
	}
	return strings.Replace(format, "%s", user, 1), true
}

// subDelims encodes the characters url.PathEscape keeps that would still
// split a query value or read as userinfo.
//
//nolint:gochecknoglobals // stateless replacer
var subDelims = strings.NewReplacer(
	"$", "%24", "&", "%26", "+", "%2B", ",", "%2C",
	":", "%3A", ";", "%3B", "=", "%3D", "@", "%40",
)

// escapeSegment percent-encodes everything outside the RFC 3986
// unreserved set.
func escapeSegment(s string) string {
	return subDelims.Replace(url.PathEscape(s))
}
