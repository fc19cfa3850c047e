package recognition

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"smart-attendance/domain/models"
)

// GeminiClient wraps the Google Gemini API client used for classroom
// recognition. It only proposes raw per-student presence guesses; deciding
// what to store is the attendance service's job.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// Proposal is one student's raw recognition outcome.
type Proposal struct {
	StudentID  string  `json:"studentId"`
	Present    bool    `json:"present"`
	Confidence float64 `json:"confidence"` // 0-100 matching confidence
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		model:  model,
	}, nil
}

// AnalyzeClassroom compares each registered student's profile photo against
// the classroom photo and returns a presence proposal per student.
func (c *GeminiClient) AnalyzeClassroom(ctx context.Context, classroomPhoto []byte, mimeType string, students []models.Student) ([]Proposal, error) {
	if len(students) == 0 {
		return []Proposal{}, nil
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	parts := []*genai.Part{
		genai.NewPartFromText(buildClassroomPrompt(students)),
		genai.NewPartFromBytes(classroomPhoto, mimeType),
	}

	// Attach profile photos in roster order so the prompt's image numbering
	// lines up.
	for _, student := range students {
		photo, err := decodePhoto(student.Photo)
		if err != nil {
			return nil, fmt.Errorf("failed to decode profile photo for %s: %w", student.ID, err)
		}
		parts = append(parts, genai.NewPartFromBytes(photo, "image/jpeg"))
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"studentId":  {Type: genai.TypeString},
					"present":    {Type: genai.TypeBoolean},
					"confidence": {Type: genai.TypeNumber, Description: "Matching confidence 0-100"},
				},
				Required: []string{"studentId", "present", "confidence"},
			},
		},
	}

	result, err := c.client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no content generated")
	}

	text := result.Text()
	if text == "" {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	var proposals []Proposal
	if err := json.Unmarshal([]byte(text), &proposals); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return proposals, nil
}

func buildClassroomPrompt(students []models.Student) string {
	var list strings.Builder
	for i, s := range students {
		fmt.Fprintf(&list, "[ID: %s] Name: %s (Image #%d)\n", s.ID, s.Name, i+1)
	}

	return fmt.Sprintf(`TASK: Classroom Attendance Recognition.
I have provided one main classroom photo and %d profile photos of registered students.

STUDENT LIST (in order of attached profile images):
%s
Compare each student's profile image against the classroom photo.
Determine if each student is physically present in the classroom photo.

Return a JSON array of objects with these exact keys:
- studentId: The ID of the student.
- present: Boolean (true if visible in classroom photo).
- confidence: Number (0-100) indicating matching confidence.

Analyze carefully. Even if blurry, try to find matching features.`, len(students), list.String())
}

// decodePhoto accepts raw base64 or a full data URL.
func decodePhoto(photo string) ([]byte, error) {
	if idx := strings.Index(photo, ","); idx >= 0 && strings.HasPrefix(photo, "data:") {
		photo = photo[idx+1:]
	}
	return base64.StdEncoding.DecodeString(photo)
}

// Close closes the Gemini client
func (c *GeminiClient) Close() error {
	// The genai client doesn't have a Close method in the current SDK
	return nil
}
