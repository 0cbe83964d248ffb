package css

import (
	"errors"
	"io"
	"strings"
)

// Parser represents a CSS parser
type Parser struct {
	// Configuration options could be added here
}

// Rule represents a CSS rule
type Rule struct {
	Selectors    []string
	Declarations []*Declaration
}

// Declaration represents a CSS declaration (property-value pair)
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Stylesheet represents a parsed CSS stylesheet
type Stylesheet struct {
	Rules []*Rule
	// Imports holds the targets of @import statements in source order
	Imports []string
}

// NewParser creates a new CSS parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseString parses CSS from a string
func (p *Parser) ParseString(content string) (*Stylesheet, error) {
	return p.Parse(strings.NewReader(content))
}

// Parse parses CSS from an io.Reader
func (p *Parser) Parse(r io.Reader) (*Stylesheet, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return p.parseCSS(string(content))
}

// parseCSS parses CSS content
func (p *Parser) parseCSS(content string) (*Stylesheet, error) {
	stylesheet := &Stylesheet{
		Rules: []*Rule{},
	}

	content = removeComments(content)
	content, stylesheet.Imports = extractImports(content)
	ruleStrings := splitRules(content)

	for _, ruleStr := range ruleStrings {
		rule, err := p.parseRule(ruleStr)
		if err != nil {
			continue // Skip invalid rules
		}
		stylesheet.Rules = append(stylesheet.Rules, rule)
	}

	return stylesheet, nil
}

// parseRule parses a single CSS rule
func (p *Parser) parseRule(ruleStr string) (*Rule, error) {
	parts := strings.SplitN(ruleStr, "{", 2)
	if len(parts) != 2 {
		return nil, errors.New("invalid rule format")
	}

	selectorStr := strings.TrimSpace(parts[0])
	declarationsStr := strings.TrimSpace(parts[1])

	// @media, @page, @font-face and friends do not apply to layout
	if strings.HasPrefix(selectorStr, "@") {
		return nil, errors.New("unsupported at-rule")
	}

	declarationsStr = strings.TrimSuffix(declarationsStr, "}")

	selectors := parseSelectors(selectorStr)
	if len(selectors) == 0 {
		return nil, errors.New("no selectors found")
	}

	declarations := ParseDeclarations(declarationsStr)

	return &Rule{
		Selectors:    selectors,
		Declarations: declarations,
	}, nil
}

// parseSelectors parses CSS selectors
func parseSelectors(selectorStr string) []string {
	selectors := strings.Split(selectorStr, ",")
	result := make([]string, 0, len(selectors))

	for _, selector := range selectors {
		selector = strings.TrimSpace(selector)
		if selector != "" {
			result = append(result, selector)
		}
	}

	return result
}

// ParseDeclarations parses a declaration block body such as an inline style attribute
func ParseDeclarations(declarationsStr string) []*Declaration {
	declarationStrings := strings.Split(declarationsStr, ";")
	result := make([]*Declaration, 0, len(declarationStrings))

	for _, declStr := range declarationStrings {
		declStr = strings.TrimSpace(declStr)
		if declStr == "" {
			continue
		}

		parts := strings.SplitN(declStr, ":", 2)
		if len(parts) != 2 {
			continue
		}

		property := strings.ToLower(strings.TrimSpace(parts[0]))
		value := strings.TrimSpace(parts[1])

		important := false
		if strings.HasSuffix(value, "!important") {
			important = true
			value = strings.TrimSuffix(value, "!important")
			value = strings.TrimSpace(value)
		}

		result = append(result, &Declaration{
			Property:  property,
			Value:     value,
			Important: important,
		})
	}

	return result
}

// FormatDeclarations is the inverse of ParseDeclarations
func FormatDeclarations(decls []*Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		s := d.Property + ": " + d.Value
		if d.Important {
			s += " !important"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, "; ")
}

// removeComments removes CSS comments
func removeComments(content string) string {
	var result strings.Builder
	i := 0

	for i < len(content) {
		if i+1 < len(content) && content[i] == '/' && content[i+1] == '*' {
			commentEnd := strings.Index(content[i+2:], "*/")
			if commentEnd == -1 {
				break
			}
			i += commentEnd + 4
		} else {
			result.WriteByte(content[i])
			i++
		}
	}

	return result.String()
}

// extractImports removes top-level @import statements and returns their targets
func extractImports(content string) (string, []string) {
	var imports []string
	var rest strings.Builder
	depth := 0

	for i := 0; i < len(content); i++ {
		switch content[i] {
		case '{':
			depth++
		case '}':
			depth--
		case '@':
			if depth == 0 && strings.HasPrefix(content[i:], "@import") {
				end := statementEnd(content[i:])
				arg := strings.TrimSuffix(content[i+len("@import"):i+end], ";")
				if target := importTarget(arg); target != "" {
					imports = append(imports, target)
				}
				i += end - 1
				continue
			}
		}
		rest.WriteByte(content[i])
	}

	return rest.String(), imports
}

// statementEnd returns the length of the at-rule statement at the start of s,
// up to and including its terminating semicolon. Semicolons inside quotes or
// parentheses do not end the statement.
func statementEnd(s string) int {
	var quote byte
	parens := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
		case c == '(':
			parens++
		case c == ')' && parens > 0:
			parens--
		case c == ';' && parens == 0:
			return i + 1
		}
	}
	return len(s)
}

// importTarget strips url(...) and quotes from an @import argument
func importTarget(arg string) string {
	arg = strings.TrimSpace(arg)
	if strings.HasPrefix(arg, "url(") {
		arg = strings.TrimSpace(arg[len("url("):])
		if len(arg) > 0 && (arg[0] == '"' || arg[0] == '\'') {
			return quoted(arg)
		}
		if end := strings.IndexByte(arg, ')'); end != -1 {
			arg = arg[:end]
		}
		return strings.TrimSpace(arg)
	}
	if len(arg) > 0 && (arg[0] == '"' || arg[0] == '\'') {
		return quoted(arg)
	}
	if f := strings.Fields(arg); len(f) > 0 {
		return f[0]
	}
	return ""
}

// quoted returns the body of the quoted string at the start of s
func quoted(s string) string {
	if end := strings.IndexByte(s[1:], s[0]); end != -1 {
		return s[1 : end+1]
	}
	return s[1:]
}

// splitRules splits CSS content into individual rules
func splitRules(content string) []string {
	var rules []string
	var currentRule strings.Builder
	braceCount := 0
	pendingSpace := false

	for i := 0; i < len(content); i++ {
		char := content[i]

		if char == '{' {
			braceCount++
		} else if char == '}' {
			braceCount--

			if braceCount == 0 {
				currentRule.WriteByte(char)
				rules = append(rules, currentRule.String())
				currentRule.Reset()
				continue
			}
		}

		if braceCount > 0 || !isWhitespace(char) {
			// descendant combinators are whitespace
			if pendingSpace && braceCount == 0 && char != '{' {
				currentRule.WriteByte(' ')
			}
			pendingSpace = false
			currentRule.WriteByte(char)
		} else if currentRule.Len() > 0 {
			pendingSpace = true
		}
	}

	return rules
}

// isWhitespace checks if a character is whitespace
func isWhitespace(char byte) bool {
	return char == ' ' || char == '\t' || char == '\n' || char == '\r'
}
