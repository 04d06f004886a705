package notifier

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestSplit_GreedyAtLineBoundaries(t *testing.T) {
	in := "short\nanotherline\nx"
	chunks := Split(in, 10)

	require.Equal(t, []string{"short", "anotherline", "x"}, chunks)
	require.Equal(t, in, strings.Join(chunks, "\n"))
}

func TestSplit_PacksLinesUpToLimit(t *testing.T) {
	chunks := Split("aaa\nbbb\nccc\nddd", 7)
	require.Equal(t, []string{"aaa\nbbb", "ccc\nddd"}, chunks)

	chunks = Split("aaa\nbbb\nccc", 11)
	require.Equal(t, []string{"aaa\nbbb\nccc"}, chunks)
}

func TestSplit_OversizedLineKeptWhole(t *testing.T) {
	long := strings.Repeat("z", 25)
	chunks := Split("ab\n"+long+"\ncd", 10)
	require.Equal(t, []string{"ab", long, "cd"}, chunks)

	chunks = Split(long, 10)
	require.Equal(t, []string{long}, chunks)
}

func TestSplit_LastChunkAlwaysEmitted(t *testing.T) {
	require.Equal(t, []string{""}, Split("", 10))
	require.Equal(t, []string{"abc\n"}, Split("abc\n", 10))
	require.Equal(t, []string{"0123456789", ""}, Split("0123456789\n", 10))
}

func TestSplit_RepeatedLastLine(t *testing.T) {
	chunks := Split("x\nyyyyyyyyyy\nx", 5)
	require.Equal(t, []string{"x", "yyyyyyyyyy", "x"}, chunks)
}

func TestSplit_DefaultLimit(t *testing.T) {
	line := strings.Repeat("a", 99)
	lines := make([]string, 40)
	for i := range lines {
		lines[i] = line
	}
	in := strings.Join(lines, "\n")

	chunks := Split(in, 0)
	require.Len(t, chunks, 3)
	for _, c := range chunks {
		require.LessOrEqual(t, utf8.RuneCountInString(c), DefaultChunkLimit)
	}
	require.Equal(t, in, strings.Join(chunks, "\n"))
}

func TestSplit_CountsCharactersNotBytes(t *testing.T) {
	// 9 characters, 14 bytes.
	chunks := Split("ünïc\nödéä", 9)
	require.Equal(t, []string{"ünïc\nödéä"}, chunks)
}

func TestSplit_InvariantsOnMixedInput(t *testing.T) {
	in := "header\n\n- btc up 3%\n- eth down 1%\n" + strings.Repeat("long", 10) + "\nfooter"
	const limit = 16
	chunks := Split(in, limit)

	require.Equal(t, in, strings.Join(chunks, "\n"))
	for _, c := range chunks {
		if utf8.RuneCountInString(c) > limit {
			require.NotContains(t, c, "\n", "only single-line chunks may exceed the limit")
		}
	}
}
