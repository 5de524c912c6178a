package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// day macro expansion
	DayInfo                Code = 1000
	DayMissingArgument     Code = 1001
	DayInvalidArgumentType Code = 1002
	DayStringInterpolation Code = 1003
	DayEmptyLiteral        Code = 1004
	DayInvalidExpression   Code = 1005
	DayNonCanonical        Code = 1006
	DayTooManyArguments    Code = 1007

	// host source
	SynInfo       Code = 2000
	SynParseError Code = 2001

	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		DayInfo:                "Day macro information",
		DayMissingArgument:     "Missing day argument",
		DayInvalidArgumentType: "Invalid day argument type",
		DayStringInterpolation: "String interpolation in day argument",
		DayEmptyLiteral:        "Empty day literal",
		DayInvalidExpression:   "Invalid day expression",
		DayNonCanonical:        "Non-canonical day expression",
		DayTooManyArguments:    "Too many day arguments",
		SynInfo:                "Syntax information",
		SynParseError:          "Source does not parse",
		IOLoadFileError:        "I/O load file error",
		IOWriteFileError:       "I/O write file error",
		ObsInfo:                "Observability information",
		ObsTimings:             "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DAY%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
