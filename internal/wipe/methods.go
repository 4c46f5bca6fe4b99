package wipe

import (
	"fmt"
	"strings"
)

// Method определяет последовательность проходов затирания
type Method string

const (
	MethodDoD     Method = "dod"
	MethodGutmann Method = "gutmann"
	MethodRandom7 Method = "random_7"
	MethodSimple  Method = "simple"
)

// Pattern is the content of one pass: fresh random bytes or a motif of
// 1-3 bytes tiled across the whole chunk.
type Pattern struct {
	Random bool
	Motif  []byte
}

// RandomPattern returns a pattern filled from the secure random source
func RandomPattern() Pattern {
	return Pattern{Random: true}
}

// MotifPattern returns a pattern tiling the given bytes
func MotifPattern(motif ...byte) Pattern {
	return Pattern{Motif: motif}
}

func (p Pattern) String() string {
	if p.Random {
		return "random"
	}
	parts := make([]string, len(p.Motif))
	for i, b := range p.Motif {
		parts[i] = fmt.Sprintf("0x%02X", b)
	}
	return strings.Join(parts, " ")
}

// gutmannPasses - 35 проходов: 4 случайных, 27 фиксированных паттернов, 4 случайных
var gutmannPasses = []Pattern{
	RandomPattern(), RandomPattern(), RandomPattern(), RandomPattern(),
	MotifPattern(0x55), MotifPattern(0xAA),
	MotifPattern(0x92, 0x49, 0x24), MotifPattern(0x49, 0x24, 0x92), MotifPattern(0x24, 0x92, 0x49),
	MotifPattern(0x00), MotifPattern(0x11), MotifPattern(0x22), MotifPattern(0x33),
	MotifPattern(0x44), MotifPattern(0x55), MotifPattern(0x66), MotifPattern(0x77),
	MotifPattern(0x88), MotifPattern(0x99), MotifPattern(0xAA), MotifPattern(0xBB),
	MotifPattern(0xCC), MotifPattern(0xDD), MotifPattern(0xEE), MotifPattern(0xFF),
	MotifPattern(0x92, 0x49, 0x24), MotifPattern(0x49, 0x24, 0x92), MotifPattern(0x24, 0x92, 0x49),
	MotifPattern(0x6D, 0xB6, 0xDB), MotifPattern(0xB6, 0xDB, 0x6D), MotifPattern(0xDB, 0x6D, 0xB6),
	RandomPattern(), RandomPattern(), RandomPattern(), RandomPattern(),
}

// ResolvePasses возвращает упорядоченный список проходов для метода.
// Неизвестный метод даёт один случайный проход.
func ResolvePasses(method Method) []Pattern {
	switch method {
	case MethodDoD:
		// DoD 5220.22-M: нули, единицы, случайные
		return []Pattern{MotifPattern(0x00), MotifPattern(0xFF), RandomPattern()}
	case MethodGutmann:
		passes := make([]Pattern, len(gutmannPasses))
		copy(passes, gutmannPasses)
		return passes
	case MethodRandom7:
		return repeatRandom(7)
	case MethodSimple:
		return repeatRandom(1)
	default:
		return repeatRandom(1)
	}
}

func repeatRandom(n int) []Pattern {
	passes := make([]Pattern, n)
	for i := range passes {
		passes[i] = RandomPattern()
	}
	return passes
}

// PassCount возвращает количество проходов для метода
func PassCount(method Method) int {
	return len(ResolvePasses(method))
}

// ParseMethod maps a user supplied name onto a Method. Unknown names map to
// MethodSimple with ok=false so the caller can report the fallback.
func ParseMethod(name string) (Method, bool) {
	m := Method(strings.ToLower(strings.TrimSpace(name)))
	switch m {
	case MethodDoD, MethodGutmann, MethodRandom7, MethodSimple:
		return m, true
	default:
		return MethodSimple, false
	}
}

// MethodInfo describes a supported method
type MethodInfo struct {
	Method      Method
	Passes      int
	Description string
}

// Methods lists supported methods in order of strength
func Methods() []MethodInfo {
	return []MethodInfo{
		{Method: MethodSimple, Passes: PassCount(MethodSimple), Description: "1 pass of random data"},
		{Method: MethodDoD, Passes: PassCount(MethodDoD), Description: "DoD 5220.22-M: zeros, ones, random"},
		{Method: MethodRandom7, Passes: PassCount(MethodRandom7), Description: "7 passes of random data"},
		{Method: MethodGutmann, Passes: PassCount(MethodGutmann), Description: "Gutmann: 4 random, 27 fixed patterns, 4 random"},
	}
}
