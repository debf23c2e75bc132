package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeTitle(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "foo", "foo"},
		{"punctuation", "Foo: Bar!", "foo-bar"},
		{"runs collapse", "Foo --- :: Bar", "foo-bar"},
		{"leading and trailing", "  ~Foo Bar~  ", "foo-bar"},
		{"digits kept", "Half-Life 2", "half-life-2"},
		{"non ascii is a separator", "Pokémon Café", "pok-mon-caf"},
		{"empty", "", ""},
		{"only symbols", "!!!", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeTitle(tt.input))
		})
	}
}

func TestIdentify_StoreAndTitle(t *testing.T) {
	offer := Offer{Store: "Epic Games", Title: "Foo: Bar!"}
	assert.Equal(t, "epic-games-foo-bar", Identify(offer))
}

func TestIdentify_CaseWhitespacePunctuationCollide(t *testing.T) {
	a := Offer{Store: "GoG", Title: "The Witcher: Enhanced Edition"}
	b := Offer{Store: "gog", Title: "the   WITCHER -- enhanced edition!!"}
	assert.Equal(t, Identify(a), Identify(b))
}

func TestIdentify_DifferentStoresDiffer(t *testing.T) {
	a := Offer{Store: "Steam", Title: "Portal"}
	b := Offer{Store: "Epic Games", Title: "Portal"}
	assert.NotEqual(t, Identify(a), Identify(b))
}

func TestIdentify_IgnoresOtherFields(t *testing.T) {
	a := Offer{Store: "Steam", Title: "Portal", URL: "https://a", Description: "x"}
	b := Offer{Store: "Steam", Title: "Portal", URL: "https://b", OriginalPrice: "$9.99"}
	assert.Equal(t, Identify(a), Identify(b))
}
