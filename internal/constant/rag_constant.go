package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
	ChatMessageRoleSystem    = "system"
)

const (
	// KnowledgeSystemPrompt constrains answers to the supplied context.
	KnowledgeSystemPrompt = "You are a helpful assistant answering questions based on the user's saved knowledge base. Answer questions based ONLY on the provided context. If the context doesn't contain enough information, say so. Be concise and accurate."

	// KnowledgeUserPromptTemplate is the user turn. The first placeholder
	// is the context block, the second the question.
	KnowledgeUserPromptTemplate = `Context from knowledge base:
%s

Question: %s

Please answer the question based on the context above. Cite which parts of the context you used.`

	// ContextEntryFormat renders one chunk inside the context block.
	ContextEntryFormat = "[Relevance: %.2f] %s"

	// NoRelevantInformationAnswer is returned without calling the model
	// when search produces nothing.
	NoRelevantInformationAnswer = "I don't have any relevant information to answer this question."
)
