package userstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/sentinel-x/internal/chatmodel"
)

func TestExtractPreferences_Language(t *testing.T) {
	p := ExtractPreferences("Please respond in spanish from now on")
	require.NotNil(t, p.Language)
	assert.Equal(t, "Spanish", *p.Language)
}

func TestExtractPreferences_NoMatchLeavesNil(t *testing.T) {
	p := ExtractPreferences("What's the weather like?")
	assert.Nil(t, p.Language)
	assert.Nil(t, p.Tone)
	assert.Nil(t, p.EmojiUsage)
}

func TestExtractPreferences_EmojiOnOff(t *testing.T) {
	on := ExtractPreferences("please use more emoji")
	require.NotNil(t, on.EmojiUsage)
	assert.True(t, *on.EmojiUsage)

	off := ExtractPreferences("don't use emoji anymore")
	require.NotNil(t, off.EmojiUsage)
	assert.False(t, *off.EmojiUsage)
}

func TestMergePreferences_NilMeansNoChange(t *testing.T) {
	lang := "French"
	emoji := true
	base := chatmodel.Preferences{Language: &lang}
	delta := chatmodel.Preferences{EmojiUsage: &emoji}

	merged := MergePreferences(base, delta)
	require.NotNil(t, merged.Language)
	assert.Equal(t, "French", *merged.Language)
	require.NotNil(t, merged.EmojiUsage)
	assert.True(t, *merged.EmojiUsage)
}

func TestDirectives_OrderedAndOnlyNonNil(t *testing.T) {
	lang := "German"
	tone := "calm"
	p := chatmodel.Preferences{Language: &lang, Tone: &tone}

	directives := Directives(&p)
	require.Len(t, directives, 2)
	assert.Contains(t, directives[0], "German")
	assert.Contains(t, directives[1], "calm")
}
