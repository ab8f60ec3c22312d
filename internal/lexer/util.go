package lexer

// ===== Классификаторы =====

func IsSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f'
}

// ASCII fast-path для идентификаторов; байты >= 0x80 считаем частью имени.
func IsIdentStart(b byte) bool {
	return b == '_' || b == '$' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z') || b >= 0x80
}

func IsIdentContinue(b byte) bool {
	return IsIdentStart(b) || isDec(b)
}

// IsNameByte - символы имён тегов и атрибутов: `my-tag`, `on-click`, `xlink:href`, `@header`, `w-bind`.
func IsNameByte(b byte) bool {
	return IsIdentContinue(b) && b != '$' || b == '-' || b == ':' || b == '@' || b == '.'
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }

// IsDigit reports an ASCII decimal digit.
func IsDigit(b byte) bool { return isDec(b) }
