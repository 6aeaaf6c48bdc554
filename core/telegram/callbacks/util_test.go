package callbacks

import (
	"testing"

	tele "gopkg.in/telebot.v4"
)

func TestParseCallbackData(t *testing.T) {
	cases := []struct {
		data    string
		key     string
		payload string
	}{
		{"\\fcat|Food", "cat", "Food"},
		{"\\fwal|Cash", "wal", "Cash"},
		{"\\fcat", "cat", ""},
		{"cat|Food", "cat", "Food"},
		{"", "", ""},
	}
	for _, c := range cases {
		key, payload := ParseCallbackData(&tele.Callback{Data: c.data})
		if key != c.key || payload != c.payload {
			t.Fatalf("ParseCallbackData(%q) = %q, %q; want %q, %q", c.data, key, payload, c.key, c.payload)
		}
	}
}

func TestParseCallbackDataNil(t *testing.T) {
	key, payload := ParseCallbackData(nil)
	if key != "" || payload != "" {
		t.Fatalf("nil callback parsed to %q, %q", key, payload)
	}
}

func TestParseCallbackDataPayloadWithSeparator(t *testing.T) {
	key, payload := ParseCallbackData(&tele.Callback{Data: "\\fcat|Food|Drinks"})
	if key != "cat" || payload != "Food|Drinks" {
		t.Fatalf("parsed %q, %q", key, payload)
	}
}
