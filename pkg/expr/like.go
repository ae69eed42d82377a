package expr

import "strings"

type likeToken struct {
	kind byte // 'c' literal, '_' any one, '%' any run
	r    rune
}

func tokenizeLike(pattern string) []likeToken {
	runes := []rune(pattern)
	tokens := make([]likeToken, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '\\':
			if i+1 < len(runes) {
				i++
			}
			tokens = append(tokens, likeToken{kind: 'c', r: runes[i]})
		case '%':
			if n := len(tokens); n > 0 && tokens[n-1].kind == '%' {
				continue
			}
			tokens = append(tokens, likeToken{kind: '%'})
		case '_':
			tokens = append(tokens, likeToken{kind: '_'})
		default:
			tokens = append(tokens, likeToken{kind: 'c', r: r})
		}
	}
	return tokens
}

// matchLike reports whether s matches a LIKE pattern: % matches any run of
// characters, _ exactly one, and a backslash makes the next character
// literal. Matching works on runes, backtracking to the last %.
func matchLike(s, pattern string, foldCase bool) bool {
	if foldCase {
		s, pattern = strings.ToLower(s), strings.ToLower(pattern)
	}
	str := []rune(s)
	tokens := tokenizeLike(pattern)

	si, ti := 0, 0
	star, mark := -1, 0
	for si < len(str) {
		if ti < len(tokens) {
			switch tok := tokens[ti]; tok.kind {
			case '%':
				star, mark = ti, si
				ti++
				continue
			case '_':
				si++
				ti++
				continue
			default:
				if tok.r == str[si] {
					si++
					ti++
					continue
				}
			}
		}
		if star < 0 {
			return false
		}
		mark++
		si, ti = mark, star+1
	}

	for ti < len(tokens) && tokens[ti].kind == '%' {
		ti++
	}
	return ti == len(tokens)
}
