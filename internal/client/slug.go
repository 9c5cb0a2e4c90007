package client

import (
	"regexp"
	"strings"
)

var translit = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "yo", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "h", 'ц': "ts",
	'ч': "ch", 'ш': "sh", 'щ': "sch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
	'я': "ya",
}

var (
	nonSlug    = regexp.MustCompile(`[^a-z0-9-]+`)
	dashRepeat = regexp.MustCompile(`-{2,}`)
)

// Slugify turns a category title into a storefront handle.
func Slugify(title string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(title) {
		if latin, ok := translit[r]; ok {
			b.WriteString(latin)
			continue
		}
		b.WriteRune(r)
	}

	slug := nonSlug.ReplaceAllString(b.String(), "-")
	slug = dashRepeat.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
