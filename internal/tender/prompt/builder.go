package prompt

import (
	"fmt"
	"strings"

	"github.com/akolanti/TenderAPI/internal/config"
	"github.com/akolanti/TenderAPI/internal/domain/tenderModel"
)

type UseCase string

const (
	SingleAnalysis   UseCase = "single-analysis"
	MultiAnalysis    UseCase = "multi-analysis"
	QuestionResponse UseCase = "question-response"
)

// OutputShape is what the parser must find in the reply.
type OutputShape string

const (
	IssueArray OutputShape = "issue-array"
	PlainText  OutputShape = "plain-text"
)

const TruncationNotice = "...(truncated)"

type Prompt struct {
	UseCase   UseCase
	Text      string
	MaxTokens int64
	Expect    OutputShape

	// EmbeddedText is the document text exactly as it was placed in Text.
	EmbeddedText string
	Truncated    bool
	Provenance   tenderModel.Provenance
}

func BuildSingleAnalysis(doc tenderModel.Document) Prompt {
	embedded, truncated := truncate(doc.Text, config.SingleAnalysisCharLimit)

	var b strings.Builder
	b.WriteString("You are analyzing a construction tender document. Review the following text and identify potential issues that might need clarification.\n\n")
	fmt.Fprintf(&b, "Document: %s\n\n", doc.Name)
	writeText(&b, embedded, truncated)
	b.WriteString("Please identify:\n")
	b.WriteString("1. Inconsistencies (conflicting information)\n")
	b.WriteString("2. Missing information (incomplete specifications)\n")
	b.WriteString("3. Ambiguities (unclear requirements)\n")
	b.WriteString("4. Contradictions (conflicting requirements)\n\n")
	writeIssueContract(&b, "Inconsistency/Missing Information/Ambiguity/Contradiction", "where in the document")

	return Prompt{
		UseCase:      SingleAnalysis,
		Text:         b.String(),
		MaxTokens:    config.SingleAnalysisMaxTokens,
		Expect:       IssueArray,
		EmbeddedText: embedded,
		Truncated:    truncated,
		Provenance:   tenderModel.Provenance{SourceFile: doc.Name},
	}
}

// BuildMultiAnalysis combines the documents in the given order and truncates the
// combined string, so earlier documents win when the ceiling is hit.
func BuildMultiAnalysis(docs []tenderModel.Document) Prompt {
	sections := make([]string, len(docs))
	names := make([]string, len(docs))
	for i, doc := range docs {
		sections[i] = fmt.Sprintf("\n=== %s ===\n%s", doc.Name, doc.Text)
		names[i] = doc.Name
	}
	fileNames := strings.Join(names, ", ")
	embedded, truncated := truncate(strings.Join(sections, "\n"), config.MultiAnalysisCharLimit)

	var b strings.Builder
	b.WriteString("You are analyzing construction tender documents. Review the following texts and identify potential issues that might need clarification. Pay special attention to inconsistencies ACROSS documents.\n\n")
	fmt.Fprintf(&b, "Documents: %s\n\n", fileNames)
	writeText(&b, embedded, truncated)
	b.WriteString("Please identify:\n")
	b.WriteString("1. Inconsistencies (conflicting information within or across documents)\n")
	b.WriteString("2. Missing information (incomplete specifications)\n")
	b.WriteString("3. Ambiguities (unclear requirements)\n")
	b.WriteString("4. Contradictions (conflicting requirements)\n")
	b.WriteString("5. Cross-document conflicts (differences between multiple tender documents)\n\n")
	writeIssueContract(&b, "Inconsistency/Missing Information/Ambiguity/Contradiction/Cross-Document Conflict", "where in the documents")

	return Prompt{
		UseCase:      MultiAnalysis,
		Text:         b.String(),
		MaxTokens:    config.MultiAnalysisMaxTokens,
		Expect:       IssueArray,
		EmbeddedText: embedded,
		Truncated:    truncated,
		Provenance:   tenderModel.Provenance{SourceFiles: fileNames},
	}
}

func BuildQuestionResponse(question tenderModel.Question) Prompt {
	var b strings.Builder
	b.WriteString("You are a construction project manager responding to a tender clarification question.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question.Text)
	b.WriteString("Provide a professional, clear, and helpful response that:\n")
	b.WriteString("1. Addresses the question directly\n")
	b.WriteString("2. Provides specific information\n")
	b.WriteString("3. References relevant sections/standards if applicable\n")
	b.WriteString("4. Maintains a professional tone\n\n")
	b.WriteString("Respond with ONLY the clarification response text, no additional formatting or preamble.")

	return Prompt{
		UseCase:   QuestionResponse,
		Text:      b.String(),
		MaxTokens: config.QuestionResponseMaxTokens,
		Expect:    PlainText,
	}
}

func writeText(b *strings.Builder, embedded string, truncated bool) {
	b.WriteString("Text:\n")
	b.WriteString(embedded)
	if truncated {
		b.WriteString(" ")
		b.WriteString(TruncationNotice)
	}
	b.WriteString("\n\n")
}

func writeIssueContract(b *strings.Builder, types string, location string) {
	b.WriteString("For each issue found, provide:\n")
	fmt.Fprintf(b, "- Type (%s)\n", types)
	b.WriteString("- Severity (high/medium/low)\n")
	b.WriteString("- Description (brief explanation)\n")
	fmt.Fprintf(b, "- Location (%s)\n", location)
	b.WriteString("- A professionally worded clarification question\n\n")
	b.WriteString(`Respond ONLY with a JSON array in this exact format, no other text:
[
  {
    "type": "Inconsistency",
    "severity": "high",
    "description": "Brief description of the issue",
    "location": "Section or page reference",
    "suggestedQuestion": "Professional clarification question"
  }
]`)
}

// truncate cuts on characters, not bytes, so multi-byte text is never split mid-rune.
func truncate(text string, limit int) (string, bool) {
	runes := []rune(text)
	if len(runes) <= limit {
		return text, false
	}
	return string(runes[:limit]), true
}
