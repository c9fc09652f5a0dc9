package main

import (
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
	"github.com/muesli/termenv"
)

var keyword = makeFgStyle("211")

func makeFgStyle(color string) func(string) string {
	return termenv.Style{}.Foreground(termenv.ColorProfile().Color(color)).Styled
}

// paragraph formats long help text for terminal display.
func paragraph(s string) string {
	return indent.String(wordwrap.String(s, 76), 2)
}
