package main

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/fatih/color"

	"trajectoryc/internal/errors"
)

// reportParseError prints a friendly caret-style parse error message when
// the underlying failure is a syntax error; anything else prints plainly.
func reportParseError(domainSource, problemSource string, err error) {
	var pe participle.Error
	if !stderrors.As(err, &pe) {
		color.Red("error: %s", err)
		return
	}

	pos := pe.Position()
	src := problemSource
	if strings.HasSuffix(pos.Filename, "domain.pddl") || strings.Contains(pos.Filename, "domain") {
		src = domainSource
	}
	lines := strings.Split(src, "\n")
	if pos.Line <= 0 || pos.Line > len(lines) {
		color.Red("syntax error at unknown location: %s", err)
		return
	}

	line := lines[pos.Line-1]
	caret := strings.Repeat(" ", pos.Column-1) + "^"

	color.Red("syntax error in %s at line %d, column %d:", pos.Filename, pos.Line, pos.Column)
	fmt.Println(line)
	color.HiRed(caret)
	fmt.Printf("-> %s\n", pe.Message())
}

// reportEngineError renders engine errors with their code and category, so
// problem-definition defects read differently from tool misuse.
func reportEngineError(err error) error {
	var ee *errors.EngineError
	if stderrors.As(err, &ee) {
		if errors.IsProblemDefinition(ee.Code) {
			color.Yellow("problem definition error [%s]: %s", ee.Code, errors.Description(ee.Code))
		} else {
			color.Red("engine error [%s]: %s", ee.Code, errors.Description(ee.Code))
		}
	}
	return err
}
