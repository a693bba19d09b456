// Package classify assigns a subject category to a video title by keyword
// matching. It is deterministic on purpose: admins can predict and correct
// the outcome, which an opaque model would not allow.
package classify

import "strings"

// Category labels. CategoryOther is the catch-all and is always a valid
// result; the classifier never fails.
const (
	CategoryLanguageArts = "language-arts"
	CategoryMath         = "math"
	CategoryEnglish      = "english"
	CategoryOther        = "other"
)

// englishKeywords signal English-language teaching content. They are only
// consulted when the title contains Latin letters at all.
var englishKeywords = []string{
	"a", "an", "the", "is", "are", "english", "grammar", "vocabulary",
	"reading", "writing", "speaking", "listening",
}

var mathKeywords = []string{
	"数学", "算术", "代数", "几何", "微积分", "方程", "函数", "集合",
	"math", "algebra", "geometry", "calculus", "equation", "function",
}

var languageArtsKeywords = []string{
	"语文", "文学", "诗歌", "散文", "小说", "作文", "阅读", "写作",
	"古文", "文言文", "汉语", "拼音", "字词", "句子", "课文",
	// Well-known set texts that carry no generic keyword in their titles.
	"朝花夕拾", "西游记", "水浒传", "红楼梦", "三国演义",
}

// Title maps a free-text title to a category. Matching is case-insensitive
// substring containment; the English list is checked first, then math, then
// language arts, so list order acts as the tie-break.
func Title(title string) string {
	lower := strings.ToLower(title)

	if containsLatin(lower) {
		for _, kw := range englishKeywords {
			if strings.Contains(lower, kw) {
				return CategoryEnglish
			}
		}
	}
	for _, kw := range mathKeywords {
		if strings.Contains(lower, kw) {
			return CategoryMath
		}
	}
	for _, kw := range languageArtsKeywords {
		if strings.Contains(lower, kw) {
			return CategoryLanguageArts
		}
	}
	return CategoryOther
}

func containsLatin(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			return true
		}
	}
	return false
}
