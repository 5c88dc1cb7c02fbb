package engine

import (
	"fmt"
	"strings"
)

const es3Reminder = "Remember: ExtendScript is ECMAScript 3. Use var, plain functions and for loops. " +
	"No let, const, arrow functions, template literals or Array.forEach."

// retry feedback after a failed execution, anchored to the original request
func buildRetryContext(errMsg string, line int, failedCode, originalPrompt string) string {
	if line > 0 {
		errMsg = fmt.Sprintf("%s (line %d)", errMsg, line)
	}

	var sb strings.Builder

	sb.WriteString("The previous script failed when it ran in After Effects.\n\n")
	sb.WriteString(fmt.Sprintf("Error: %s\n\n", errMsg))
	sb.WriteString("Failed script:\n```javascript\n")
	sb.WriteString(strings.TrimSpace(failedCode))
	sb.WriteString("\n```\n\n")
	sb.WriteString(fmt.Sprintf("Original request: %s\n\n", originalPrompt))
	sb.WriteString("Fix the error and return the complete corrected script in one fenced block. ")
	sb.WriteString(es3Reminder)

	return sb.String()
}

// retry feedback after a reply that carried no code
func buildEmptyCodeContext(originalPrompt string) string {
	return fmt.Sprintf("Your previous reply did not contain a code block.\n\n"+
		"Original request: %s\n\n"+
		"Return the complete script in exactly one ```javascript fenced block. %s", originalPrompt, es3Reminder)
}
