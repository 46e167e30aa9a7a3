package agent

import "fmt"

// schemaUnavailable is substituted into prompts when the schema snapshot
// could not be fetched at initialization.
const schemaUnavailable = "Schema not available."

const classificationPromptTemplate = `Given the user question, chat history, and the database schema, classify the question into one of three categories: 'sql', 'rag', or 'general'. Use the history for context.

Chat History:
%s

Database Schema (Doctors and Institutions):
%s

User Question: %s

Categories:
- 'sql': The question asks for specific information *only* about doctors or institutions based on the schema (e.g., names, specializations, addresses, counts). Consider the history for pronoun resolution (e.g., 'their specialization').
- 'rag': The question asks about general medical topics, diseases, symptoms, causes, treatments, prevention, wellness, etc. These answers are likely found in general medical summaries, not the specific database schema provided. Consider history for follow-up questions on medical topics.
- 'general': The question is a greeting, small talk, asks about the AI itself, or is completely unrelated to medicine or the specific doctors/institutions in the database.

Classification (respond with only 'sql', 'rag', or 'general'):`

const sqlGenerationPromptTemplate = `You are an expert in SQL. Write a SQL query based on the following question and schema. Do NOT use chat history for SQL generation, only the current question.

Database Schema:
%s

Question:
%s

Instructions:
- Use PostgreSQL syntax.
- Relevant tables: ` + "`doctors`, `institutions`" + `. Do NOT prefix table names.
- Use ` + "`ILIKE '%%query%%'`" + ` for case-insensitive text matching (e.g., ` + "`full_name`, `specialization`" + `).
- Join ` + "`doctors`" + ` and ` + "`institutions`" + ` using ` + "`doctors.institution_id = institutions.id`" + ` if needed.
- Return only the raw SQL query, no explanations or markdown.

SQL Query:`

const sqlAnswerPromptTemplate = `You are a helpful assistant. Based on the chat history, the user's question, and the result from the database query (or an error message), provide a final answer in natural language. If an error occurred, explain the problem conversationally.

Chat History:
%s

User Question: %s

Database Result or Error:
%s

Final Answer (respond conversationally in the same language as the question):`

const ragAnswerPromptTemplate = `You are a helpful assistant. Based on the chat history, the user's question, and the retrieved information from medical documents (or an error message), provide a final answer in natural language. If an error occurred or no relevant information was found, state that clearly but politely.

Chat History:
%s

User Question: %s

Retrieved Information or Error:
%s

Final Answer (respond conversationally in the same language as the question):`

const generalAnswerErrorPromptTemplate = `You are a helpful assistant. Answer the user based on the chat history and the user's question. An internal error occurred processing the request: "%s". Apologize and inform the user you couldn't fully process it due to an internal issue.

Chat History:
%s

User Question: %s

Answer:`

const generalAnswerPromptTemplate = `You are a helpful assistant. Answer the user's question directly and conversationally, using the chat history for context if needed.

Chat History:
%s

User Question: %s

Answer:`

func classificationPrompt(question, historyText, schema string) string {
	if schema == "" {
		schema = schemaUnavailable
	}
	return fmt.Sprintf(classificationPromptTemplate, historyText, schema, question)
}

func sqlGenerationPrompt(question, schema string) string {
	return fmt.Sprintf(sqlGenerationPromptTemplate, schema, question)
}

func sqlAnswerPrompt(question, historyText, resultOrError string) string {
	return fmt.Sprintf(sqlAnswerPromptTemplate, historyText, question, resultOrError)
}

func ragAnswerPrompt(question, historyText, retrievedOrError string) string {
	return fmt.Sprintf(ragAnswerPromptTemplate, historyText, question, retrievedOrError)
}

func generalAnswerPrompt(question, historyText, errorText string) string {
	if errorText != "" {
		return fmt.Sprintf(generalAnswerErrorPromptTemplate, errorText, historyText, question)
	}
	return fmt.Sprintf(generalAnswerPromptTemplate, historyText, question)
}
