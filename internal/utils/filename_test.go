package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestDecodeFileName_PercentEncoded(t *testing.T) {
	decoded := DecodeFileName("%D0%94%D0%BE%D0%B3%D0%BE%D0%B2%D0%BE%D1%80.pdf")
	require.Equal(t, "Договор.pdf", decoded)
}

func TestDecodeFileName_CyrillicPassthrough(t *testing.T) {
	require.Equal(t, "Отчёт.docx", DecodeFileName("Отчёт.docx"))
}

func TestDecodeFileName_RecoversWindows1251Mojibake(t *testing.T) {
	// Simulate a transport that read CP1251 bytes as Latin-1: every byte
	// becomes the rune with the same value.
	raw, err := charmap.Windows1251.NewEncoder().Bytes([]byte("Договор.pdf"))
	require.NoError(t, err)

	mojibake := make([]rune, len(raw))
	for i, b := range raw {
		mojibake[i] = rune(b)
	}

	require.Equal(t, "Договор.pdf", DecodeFileName(string(mojibake)))
}

func TestDecodeFileName_PlainASCIIUnchanged(t *testing.T) {
	require.Equal(t, "report.pdf", DecodeFileName("report.pdf"))
}

func TestDecodeFileName_MultibyteNonCyrillicUnchanged(t *testing.T) {
	// Runes above 0xFF cannot come from a single-byte misread.
	require.Equal(t, "契約書.pdf", DecodeFileName("契約書.pdf"))
}

func TestStripExtension(t *testing.T) {
	cases := map[string]string{
		"report.pdf":     "report",
		"archive.tar.gz": "archive.tar",
		"noext":          "noext",
		".gitignore":     ".gitignore",
		"Договор.docx":   "Договор",
	}
	for input, want := range cases {
		require.Equal(t, want, StripExtension(input), "input %q", input)
	}
}
