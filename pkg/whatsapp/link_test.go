package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLinkBuilderNormalizes(t *testing.T) {
	builder, err := NewLinkBuilder("+254 712-345-678")
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/254712345678", builder.Link(""))
}

func TestNewLinkBuilderRejectsBadNumbers(t *testing.T) {
	_, err := NewLinkBuilder("")
	require.Error(t, err)

	_, err = NewLinkBuilder("07abc12345")
	require.Error(t, err)
}

func TestLinkEncodesMessage(t *testing.T) {
	builder, err := NewLinkBuilder("254712345678")
	require.NoError(t, err)

	link := builder.Link("Hello & welcome?")
	assert.Equal(t, "https://wa.me/254712345678?text=Hello+%26+welcome%3F", link)
}

func TestConsultationLink(t *testing.T) {
	builder, err := NewLinkBuilder("254712345678")
	require.NoError(t, err)

	link := builder.ConsultationLink(" Amina ", "skin care")
	assert.Contains(t, link, "https://wa.me/254712345678?text=")
	assert.Contains(t, link, "Amina")
	assert.Contains(t, link, "skin+care")
}
