package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Ошибки чтения шаблона
	SynInfo                Code = 2000
	SynUnexpectedChar      Code = 2001
	SynUnclosedTag         Code = 2002
	SynMismatchedCloseTag  Code = 2003
	SynUnclosedString      Code = 2004
	SynUnclosedPlaceholder Code = 2005
	SynUnclosedComment     Code = 2006
	SynExpectTagName       Code = 2007
	SynUnclosedParen       Code = 2008
	SynExpectAttrValue     Code = 2009
	SynUnexpectedCloseTag  Code = 2010

	// Миграции: устаревший синтаксис
	MigInfo              Code = 3000
	MigForDirective      Code = 3001
	MigIfDirective       Code = 3002
	MigElseIfDirective   Code = 3003
	MigElseDirective     Code = 3004
	MigBodyOnlyIf        Code = 3005
	MigRefAttribute      Code = 3006
	MigDynamicAttributes Code = 3007
	MigTemplateLiteral   Code = 3008

	// <invoke>
	MigInvokeMissingValue Code = 3101
	MigInvokeNotCall      Code = 3102
	MigInvokeExtraAttrs   Code = 3103

	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002

	ProjInfo          Code = 5000
	ProjInvalidConfig Code = 5001
	ProjUnknownRule   Code = 5002

	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		SynInfo:                "Template syntax information",
		SynUnexpectedChar:      "Unexpected character",
		SynUnclosedTag:         "Unclosed tag",
		SynMismatchedCloseTag:  "Mismatched closing tag",
		SynUnclosedString:      "Unclosed string literal",
		SynUnclosedPlaceholder: "Unclosed placeholder",
		SynUnclosedComment:     "Unclosed comment",
		SynExpectTagName:       "Expected tag name",
		SynUnclosedParen:       "Unclosed parenthesis",
		SynExpectAttrValue:     "Expected attribute value",
		SynUnexpectedCloseTag:  "Unexpected closing tag",
		MigInfo:                "Migration information",
		MigForDirective:        "Deprecated for directive",
		MigIfDirective:         "Deprecated if directive",
		MigElseIfDirective:     "Deprecated else-if directive",
		MigElseDirective:       "Deprecated else directive",
		MigBodyOnlyIf:          "Deprecated body-only-if directive",
		MigRefAttribute:        "Deprecated ref attribute",
		MigDynamicAttributes:   "Deprecated dynamic attributes",
		MigTemplateLiteral:     "Deprecated non-standard template literal",
		MigInvokeMissingValue:  "<invoke> without value",
		MigInvokeNotCall:       "<invoke> without function call",
		MigInvokeExtraAttrs:    "<invoke> with extra attributes",
		IOLoadFileError:        "I/O load file error",
		IOWriteFileError:       "I/O write file error",
		ProjInfo:               "Project information",
		ProjInvalidConfig:      "Invalid project configuration",
		ProjUnknownRule:        "Unknown migration rule",
		ObsInfo:                "Observability information",
		ObsTimings:             "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("MIG%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
