package catalog

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/gang-ground/internal/cart"
	"github.com/gang-ground/internal/constants"
	"github.com/gang-ground/internal/i18n"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var lineSplitter = regexp.MustCompile(`\n|\.\s+`)

// FormatPrice 提取数字并按 ru-RU 分组输出；无数字时原样返回
func FormatPrice(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.ContainsFunc(raw, func(r rune) bool { return r >= '0' && r <= '9' }) {
		return raw
	}
	return i18n.FormatRUB(cart.ParsePrice(raw))
}

// DescriptionLines HTML 描述转纯文本行
func DescriptionLines(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	var b strings.Builder
	tokenizer := html.NewTokenizer(strings.NewReader(raw))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}
		switch tt {
		case html.TextToken:
			b.Write(tokenizer.Text())
		case html.StartTagToken, html.SelfClosingTagToken:
			name, _ := tokenizer.TagName()
			switch atom.Lookup(name) {
			case atom.Br:
				b.WriteByte('\n')
			case atom.Li:
				b.WriteString("\n• ")
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch atom.Lookup(name) {
			case atom.P, atom.Div, atom.Li, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				b.WriteByte('\n')
			}
		}
	}
	text := strings.ReplaceAll(b.String(), "\u00a0", " ")
	lines := make([]string, 0)
	for _, part := range lineSplitter.Split(text, -1) {
		if line := strings.TrimSpace(part); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// Slugify 名称转 slug：小写，空白串替换为 -
func Slugify(name string) string {
	var b strings.Builder
	inSpace := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsSpace(r) {
			if !inSpace {
				b.WriteByte('-')
			}
			inSpace = true
			continue
		}
		inSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// IsInStock 状态为 IN_STOCK 或数量大于 0 即视为有货
func IsInStock(status string, quantity *int) bool {
	if strings.EqualFold(strings.TrimSpace(status), constants.StockStatusInStock) {
		return true
	}
	return quantity != nil && *quantity > 0
}
