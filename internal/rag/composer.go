package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"finsight/internal/contextutil"
	"finsight/internal/llm"
	"finsight/internal/query"
)

const (
	answerTemperature = 0.2
	answerMaxTokens   = 1024
	contextSeparator  = "\n\n---\n\n"
)

// NoInformationMessage is returned when no chunk survives filtering. The
// language model is never called with empty context.
const NoInformationMessage = "No relevant information found in the documents for this query."

// User-facing error strings. Generation failures never propagate as errors;
// they resolve to one of these answer strings so the caller always receives
// a well-formed result.
const (
	msgMissingKey  = "The language model API key is not configured. Set LLM_API_KEY and restart the service."
	msgInvalidKey  = "The language model rejected the configured API key. Check the LLM_API_KEY value."
	msgRateLimited = "The language model rate limit was hit. Wait a moment and try again."
)

var intentInstructions = map[query.Intent]string{
	query.IntentRisk:        "Identify and clearly categorise the specific risks mentioned. Group similar risks together (e.g. credit risk, market risk, operational risk, regulatory risk).",
	query.IntentOutlook:     "Focus on future plans, strategic priorities, and management's expectations. Present as forward-looking structured points.",
	query.IntentPerformance: "Focus on specific financial figures, growth rates, and year-on-year comparisons. Be precise with numbers and percentages.",
	query.IntentPeople:      "Focus on workforce metrics, hiring, attrition, and talent strategy.",
	query.IntentGeneral:     "Provide a clear, well-structured overview of the relevant information.",
}

const systemPrompt = `You are a senior financial analyst assistant specialising in analysing
Management Discussion & Analysis (MD&A) sections of annual reports.

Answer questions clearly and concisely based ONLY on the provided document excerpts.
Do not use outside knowledge. If something is not in the excerpts, say so explicitly.

Rules:
- Write in clear, professional financial language
- Use bullet points for lists of items
- Bold (**text**) important figures, percentages, and key terms
- Group related points under short sub-headings where it helps clarity
- Always cite specific numbers when they appear in the context
- Do not repeat the same point
- If comparing across years, clearly label each year's data`

// Composer turns retrieved chunks into a final answer with one generation
// call.
type Composer struct {
	llmClient *llm.Client
}

// NewComposer creates a Composer backed by the given chat client.
func NewComposer(llmClient *llm.Client) *Composer {
	return &Composer{llmClient: llmClient}
}

// Compose builds the prompt and issues a single synchronous generation call.
// Failures are converted to user-facing answer strings, never returned as
// errors: missing credentials, auth rejection, and rate limiting each get a
// distinct message, anything else a generic one embedding the cause.
func (c *Composer) Compose(ctx context.Context, q string, chunks []string, intent query.Intent, company, year string) string {
	if len(chunks) == 0 {
		return NoInformationMessage
	}

	instruction, ok := intentInstructions[intent]
	if !ok {
		instruction = intentInstructions[query.IntentGeneral]
	}

	companyLabel := company
	if companyLabel == "" {
		companyLabel = "the company"
	}
	yearContext := " across available years"
	if year != "" {
		yearContext = fmt.Sprintf(" for %s", year)
	}

	userPrompt := fmt.Sprintf(`Based on the following excerpts from %s's MD&A report%s, answer this question:

**Question:** %s

**Instruction:** %s

**Document Excerpts:**
%s

Provide a well-structured, clear answer. Use sub-headings if there are multiple distinct categories to cover.`,
		companyLabel, yearContext, q, instruction, strings.Join(chunks, contextSeparator))

	answer, err := c.llmClient.ChatWithMessages(ctx,
		[]llm.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		llm.ChatParams{
			Temperature: answerTemperature,
			MaxTokens:   answerMaxTokens,
		},
	)
	if err != nil {
		logger := contextutil.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "answer generation failed", "error", err)
		return classifyGenerationError(err)
	}

	return answer
}

// classifyGenerationError maps a generation failure to its user-facing
// string. Classification checks the typed error first and falls back to
// message substrings for providers that bury the cause in the body.
func classifyGenerationError(err error) string {
	if errors.Is(err, llm.ErrMissingAPIKey) {
		return msgMissingKey
	}

	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case 401, 403:
			return msgInvalidKey
		case 429:
			return msgRateLimited
		}
	}

	lower := strings.ToLower(err.Error())
	if strings.Contains(lower, "api_key") || strings.Contains(lower, "authentication") {
		return msgInvalidKey
	}
	if strings.Contains(lower, "rate_limit") {
		return msgRateLimited
	}

	return fmt.Sprintf("The language model request failed: %s", err)
}
