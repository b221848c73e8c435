package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhoneNumber(t *testing.T) {
	require.Equal(t, "", PhoneNumber(""))
	require.Equal(t, "(1", PhoneNumber("1"))
	require.Equal(t, "(11", PhoneNumber("11"))
	require.Equal(t, "(11) 9", PhoneNumber("119"))
	require.Equal(t, "(11) 98765", PhoneNumber("1198765"))
	require.Equal(t, "(11) 98765-4321", PhoneNumber("11987654321"))

	// Extra digits are dropped
	require.Equal(t, "(11) 98765-4321", PhoneNumber("119876543219999"))
}

func TestPhoneNumberIdempotent(t *testing.T) {
	formatted := PhoneNumber("11987654321")
	require.Equal(t, formatted, PhoneNumber(formatted))
}

func TestDocumentCPFMask(t *testing.T) {
	require.Equal(t, "529", Document("529"))
	require.Equal(t, "529.982", Document("529982"))
	require.Equal(t, "529.982.247", Document("529982247"))
	require.Equal(t, "529.982.247-25", Document("52998224725"))
	require.Equal(t, "529.982.247-25", Document("529.982.247-25"))
}

func TestDocumentRGMask(t *testing.T) {
	// Past 11 digits the generic mask applies, capped at 12 digits
	require.Equal(t, "12.345.678-9012", Document("123456789012345"))
}

func TestClassifyDocument(t *testing.T) {
	tests := []struct {
		raw   string
		typ   DocumentType
		valid bool
	}{
		{"529.982.247-25", DocumentCPF, true},
		{"52998224725", DocumentCPF, true},
		// 11 digits with a failing check digit is not a CPF, but the digit
		// count still fits the RG heuristic
		{"52998224724", DocumentRG, true},
		{"12345678", DocumentRG, true},
		{"12345", DocumentOther, false},
		{"123456789012", DocumentOther, false},
		{"", DocumentOther, false},
		// Repeated-digit sequences pass the arithmetic but are rejected
		{"11111111111", DocumentRG, true},
	}

	for _, tt := range tests {
		typ, valid := ClassifyDocument(tt.raw)
		require.Equal(t, tt.typ, typ, "raw=%q", tt.raw)
		require.Equal(t, tt.valid, valid, "raw=%q", tt.raw)
	}
}

func TestCurrency(t *testing.T) {
	require.Equal(t, "R$ 0,00", Currency(0))
	require.Equal(t, "R$ 120,00", Currency(120))
	require.Equal(t, "R$ 1.234,50", Currency(1234.5))
	require.Equal(t, "R$ 1.234.567,89", Currency(1234567.89))
	require.Equal(t, "-R$ 10,00", Currency(-10))
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "joao", Normalize("JOÃO"))
	require.Equal(t, "gira da mata", Normalize("Gira da Mata"))
	require.Equal(t, "acucar", Normalize("Açúcar"))
	require.Equal(t, Normalize("José"), Normalize("jose"))
}
