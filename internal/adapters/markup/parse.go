package markup

import "strings"

// directiveName splits "#name(rest..." into the directive name and the
// remainder of the line.
func directiveName(line string) (string, string) {
	line = strings.TrimPrefix(line, "#")
	for i := 0; i < len(line); i++ {
		c := line[i]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '.' {
			continue
		}
		return line[:i], strings.TrimSpace(line[i:])
	}
	return line, ""
}

// quotedArgument extracts the first double-quoted string from a
// directive argument list like `("value")`.
func quotedArgument(rest string) (string, bool) {
	start := strings.IndexByte(rest, '"')
	if start < 0 {
		return "", false
	}
	end := strings.IndexByte(rest[start+1:], '"')
	if end < 0 {
		return "", false
	}
	return rest[start+1 : start+1+end], true
}

// textStyleArgument parses `text(style: "X")`.
func textStyleArgument(rest string) (string, bool) {
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "text(") {
		return "", false
	}
	inner := strings.TrimPrefix(rest, "text(")
	inner = strings.TrimSuffix(strings.TrimSpace(inner), ")")

	key, value, ok := strings.Cut(inner, ":")
	if !ok || strings.TrimSpace(key) != "style" {
		return "", false
	}
	style, ok := quotedArgument(value)
	if !ok {
		return "", false
	}
	return style, true
}

// parenthesizedWithLabel parses `(<inner>) <label>`: the parenthesized
// value of a metadata directive followed by its mandatory label.
func parenthesizedWithLabel(rest string) (inner, label string, ok bool) {
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "(") {
		return "", "", false
	}

	depth := 0
	end := -1
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				end = i
			}
		}
		if end >= 0 {
			break
		}
	}
	if end < 0 {
		return "", "", false
	}

	inner = strings.TrimSpace(rest[1:end])
	_, label = splitLabel(strings.TrimSpace(rest[end+1:]))
	if label == "" {
		return "", "", false
	}
	return inner, label, true
}

// splitLabel detaches a trailing `<label>` from a line.
func splitLabel(line string) (body, label string) {
	if !strings.HasSuffix(line, ">") {
		return line, ""
	}
	start := strings.LastIndexByte(line, '<')
	if start < 0 {
		return line, ""
	}
	label = line[start+1 : len(line)-1]
	if label == "" || strings.ContainsAny(label, " \t") {
		return line, ""
	}
	return strings.TrimSpace(line[:start]), label
}
