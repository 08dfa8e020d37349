package template

import (
	"fmt"
	"os"
	"regexp"

	"github.com/aymerick/raymond"
)

func SetupHandlebars(templateContent, templateName string) *raymond.Template {
	tpl, err := raymond.Parse(templateContent)
	if err != nil {
		fmt.Printf("Failed to parse template: %v\n", err)
		return nil
	}
	return tpl
}

// SetupTemplate resolves the template to use (custom path or built-in
// default) and parses it.
func SetupTemplate(templatePath string) (*raymond.Template, error) {
	content, name := GetTemplate(templatePath)
	if content == "" {
		return nil, fmt.Errorf("failed to load %s template", name)
	}
	tpl := SetupHandlebars(content, name)
	if tpl == nil {
		return nil, fmt.Errorf("failed to parse %s template", name)
	}
	return tpl, nil
}

func RenderTemplate(tpl *raymond.Template, data map[string]interface{}) string {
	result, err := tpl.Exec(data)
	if err != nil {
		fmt.Printf("Failed to render template: %v\n", err)
		return ""
	}
	return result
}

func ExtractUndefinedVariables(templateContent string) []string {
	re := regexp.MustCompile(`\{\{([^}]+)\}\}`)
	matches := re.FindAllStringSubmatch(templateContent, -1)

	var undefinedVars []string
	for _, match := range matches {
		if len(match) > 1 {
			undefinedVars = append(undefinedVars, match[1])
		}
	}

	return undefinedVars
}

func HandleUndefinedVariables(data *map[string]interface{}, templateContent string) {
	undefinedVars := ExtractUndefinedVariables(templateContent)
	for _, v := range undefinedVars {
		if _, exists := (*data)[v]; !exists {
			fmt.Printf("Enter value for '%s': ", v)
			var value string
			fmt.Scanln(&value)
			(*data)[v] = value
		}
	}
}

func GetTemplate(templatePath string) (string, string) {
	if templatePath != "" {
		content, err := os.ReadFile(templatePath)
		if err != nil {
			fmt.Printf("Failed to read custom template file: %v\n", err)
			return "", ""
		}
		return string(content), "custom"
	}
	return defaultTemplate, "default"
}

func PrintDefaultTemplate() {
	fmt.Println(defaultTemplate)
}

const defaultTemplate = `
Project Path: {{ absolute_code_path }}

Source Tree:

` + "```" + `
{{ source_trees }}
` + "```" + `

Symbol Map:

{{#each files}}
{{#if code}}
` + "`{{path}}:`" + `

{{code}}

{{/if}}
{{/each}}
`
