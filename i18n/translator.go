package i18n

import (
	"sort"
	"strings"
	"sync"
)

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected" or "index"). Placeholders are written as {name}.
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

var dict = map[string]map[string]string{
	"en": {
		"invalid_type":         "invalid type",
		"unresolved_path":      "path cannot be resolved against the schema",
		"union_ambiguous":      "cannot determine which variant applies; choose a type",
		"variant_out_of_range": "variant {index} does not exist",
		"incompatible_schema":  "copied data is not compatible with the target",
		"invalid_clipboard":    "clipboard content does not match the selection",
		"index_out_of_range":   "index {index} is out of range",
		"parse_error":          "parse error",
	},
	"ja": {
		"invalid_type":         "型が不正です",
		"unresolved_path":      "パスをスキーマで解決できません",
		"union_ambiguous":      "バリアントを特定できません。型を選択してください",
		"variant_out_of_range": "バリアント {index} は存在しません",
		"incompatible_schema":  "コピーしたデータは貼り付け先と互換性がありません",
		"invalid_clipboard":    "クリップボードの内容が選択と一致しません",
		"index_out_of_range":   "インデックス {index} は範囲外です",
		"parse_error":          "解析エラー",
	},
}

func (t dictTranslator) Message(code string, data map[string]string) string {
	msgs := dict[t.lang]
	msg, ok := msgs[code]
	if !ok {
		return code
	}
	return interpolate(msg, data)
}

func interpolate(msg string, data map[string]string) string {
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{"+k+"}", data[k])
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version).
func SetTranslator(tr Translator) {
	mu.Lock()
	defer mu.Unlock()
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
