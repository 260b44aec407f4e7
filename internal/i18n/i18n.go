package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	LocaleRU = "ru-RU"
	LocaleEN = "en-US"

	// DefaultLocale 店铺默认语言
	DefaultLocale = LocaleRU
)

var supportedTags = []language.Tag{
	language.MustParse(LocaleRU),
	language.MustParse(LocaleEN),
}

var matcher = language.NewMatcher(supportedTags)

// ResolveLocale 按 lang 查询参数、Accept-Language 顺序解析语言
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if lang := strings.TrimSpace(c.Query("lang")); lang != "" {
		return Match(lang)
	}
	return Match(c.GetHeader("Accept-Language"))
}

// Match 将任意语言描述匹配到受支持的语言
func Match(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return DefaultLocale
	}
	_, index, confidence := matcher.Match(tags...)
	if confidence == language.No {
		return DefaultLocale
	}
	return supportedTags[index].String()
}

// T 翻译文案，缺失时回退默认语言，再回退 key 本身
func T(locale, key string) string {
	if table, ok := messages[locale]; ok {
		if text, ok := table[key]; ok {
			return text
		}
	}
	if text, ok := messages[DefaultLocale][key]; ok {
		return text
	}
	return key
}

// Sprintf 翻译并格式化
func Sprintf(locale, key string, args ...interface{}) string {
	return strings.TrimSpace(fmt.Sprintf(T(locale, key), args...))
}

var rubPrinter = message.NewPrinter(language.Russian)

// FormatRUB 按俄语分组格式化金额并追加 ₽
func FormatRUB(amount int64) string {
	return rubPrinter.Sprintf("%d", amount) + " ₽"
}
