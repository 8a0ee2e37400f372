package session

import (
	"fmt"

	"github.com/docvet/docvet/internal/domain"
)

// systemInstruction frames the whole conversation. It is sent once, ahead
// of the document payload, and never repeated.
const systemInstruction = `You are a meticulous document validation assistant. ` +
	`You will be given the structure of a document, then asked a series of ` +
	`validation questions about it. Answer each question with a verdict line ` +
	`"Result: PASS" or "Result: FAIL", a "Confidence:" value between 0.0 and 1.0, ` +
	`and a "Reasoning:" line explaining the verdict. Base every answer strictly ` +
	`on the document structure provided.`

// contextPrompt wraps the rendered document for the context-setup turn.
func contextPrompt(rendered string) string {
	return fmt.Sprintf(
		"Here is the structure of the document to validate:\n\n%s\n\n"+
			"Acknowledge that you have read it. Do not validate anything yet.",
		rendered,
	)
}

// validationPrompt phrases one spec as a question against the already-sent
// document. The document itself is never repeated here.
func validationPrompt(spec domain.ValidationSpec) string {
	return fmt.Sprintf(
		"Validate the document against the following requirement.\n\n"+
			"Name: %s\nCategory: %s\nRequirement: %s\n\n"+
			"Reply with \"Result: PASS\" or \"Result: FAIL\", then \"Confidence:\" "+
			"and \"Reasoning:\" lines.",
		spec.Name, spec.Category, spec.Description,
	)
}
