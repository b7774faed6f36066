package gemini

import "google.golang.org/genai"

// promptData represents the data passed to the prompt template
type promptData struct {
	Text  string
	Count int
}

// flashcardSchema is a single flashcard in the model's JSON response.
type flashcardSchema struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// responseSchema describes the JSON array the model must return.
var responseSchema = &genai.Schema{
	Type: genai.TypeArray,
	Items: &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"question": {Type: genai.TypeString},
			"answer":   {Type: genai.TypeString},
		},
		Required: []string{"question", "answer"},
	},
}
