package bizforge

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Backend defaults applied when the caller leaves a field empty.
const (
	DefaultTaglineTone     = "catchy"
	DefaultContentTone     = "professional"
	DefaultContentType     = "blog post"
	DefaultTargetAudience  = "general"
	DefaultDescriptionTone = "persuasive"
	DefaultLogoStyle       = "modern, minimalist"
)

// BrandRequest is the generate-brand body.
type BrandRequest struct {
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
}

// BrandResponse holds the suggested brand names.
type BrandResponse struct {
	BrandNames []string `json:"brand_names"`
}

// TaglineRequest asks for taglines for a brand.
type TaglineRequest struct {
	BrandName   string `json:"brand_name"`
	Description string `json:"description"`
	Tone        string `json:"tone,omitempty"`
}

// Tagline is one generated slogan.
type Tagline struct {
	Tagline string `json:"tagline"`
	Logic   string `json:"logic"`
}

// TaglineResponse lists generated taglines.
type TaglineResponse struct {
	Taglines []Tagline `json:"taglines"`
}

// ContentRequest asks for marketing copy on a topic.
type ContentRequest struct {
	Topic       string `json:"topic"`
	Tone        string `json:"tone"`
	ContentType string `json:"content_type"`
}

// ContentResponse carries the generated copy.
type ContentResponse struct {
	Content string `json:"content"`
}

// ProductDescriptionRequest describes the product to write copy for.
type ProductDescriptionRequest struct {
	ProductName    string `json:"product_name"`
	Features       string `json:"features"`
	TargetAudience string `json:"target_audience"`
	Tone           string `json:"tone"`
}

// ProductDescription is generated product copy in several lengths.
type ProductDescription struct {
	ShortDescription string   `json:"short_description"`
	LongDescription  string   `json:"long_description"`
	MarketingBlurb   string   `json:"marketing_blurb"`
	Bullets          TextList `json:"bullets"`
}

// SentimentRequest is customer feedback to score.
type SentimentRequest struct {
	Text      string `json:"text"`
	BrandName string `json:"brand_name,omitempty"`
}

// SentimentAnalysis scores customer feedback; Score runs 0-100.
type SentimentAnalysis struct {
	Sentiment   string   `json:"sentiment"`
	Score       Score    `json:"score"`
	Summary     string   `json:"summary"`
	KeyIssues   TextList `json:"key_issues"`
	Suggestions TextList `json:"suggestions"`
}

// TaglineAnalysisRequest is a tagline to critique.
type TaglineAnalysisRequest struct {
	Tagline          string `json:"tagline"`
	BrandName        string `json:"brand_name"`
	BrandDescription string `json:"brand_description,omitempty"`
}

// TaglineAnalysis rates a tagline; ImpactScore runs 0-100.
type TaglineAnalysis struct {
	Sentiment          string   `json:"sentiment"`
	ImpactScore        Score    `json:"impact_score"`
	ReachPotential     string   `json:"reach_potential"`
	Analysis           string   `json:"analysis"`
	Suggestions        TextList `json:"suggestions"`
	BetterAlternatives TextList `json:"better_alternatives"`
}

// ColorsRequest is the get-colors body.
type ColorsRequest struct {
	Description string `json:"description"`
}

// ColorsResponse holds hex codes such as "#1A2B3C".
type ColorsResponse struct {
	Colors []string `json:"colors"`
}

// ChatMessage is one turn of a chat history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a chat message with its prior history.
type ChatRequest struct {
	Message string        `json:"message"`
	History []ChatMessage `json:"history"`
}

// ChatResponse is the assistant reply.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// LogoRequest describes the logo to generate.
type LogoRequest struct {
	Description string `json:"description"`
	Style       string `json:"style,omitempty"`
}

// Logo is a generated logo. Image is a data URL and may be empty when the
// backend only produced a prompt.
type Logo struct {
	Prompt  string `json:"prompt"`
	Image   string `json:"image"`
	FileURL string `json:"file_url"`
}

// DecodeImage returns the raw bytes and media type of the Image data URL.
func (l *Logo) DecodeImage() ([]byte, string, error) {
	if l == nil || l.Image == "" {
		return nil, "", fmt.Errorf("logo has no image data")
	}
	rest, ok := strings.CutPrefix(l.Image, "data:")
	if !ok {
		return nil, "", fmt.Errorf("logo image is not a data url")
	}
	meta, data, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, "", fmt.Errorf("logo image data url has no payload")
	}
	mediaType, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return nil, "", fmt.Errorf("logo image data url is not base64 encoded")
	}
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, "", fmt.Errorf("decode logo image: %w", err)
	}
	return raw, mediaType, nil
}

// Transcription is the text recognised in an uploaded recording.
type Transcription struct {
	Transcription string `json:"transcription"`
}

// SaveItemRequest is the save-item wire body. The item_type key is fixed by the backend.
type SaveItemRequest struct {
	ItemType string `json:"item_type"`
	Content  any    `json:"content"`
}

// SavedItem is a persisted artifact as returned by the backend.
type SavedItem struct {
	ID        int64           `json:"id"`
	ItemType  string          `json:"item_type"`
	Content   json.RawMessage `json:"content"`
	CreatedAt Timestamp       `json:"created_at"`
}

// Timestamp accepts RFC 3339 as well as the zone-less ISO form the backend
// emits; zone-less values are read as UTC.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		t.Time = time.Time{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("timestamp: %w", err)
	}
	if s == "" {
		t.Time = time.Time{}
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("timestamp: unrecognized format %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}

// Score is a model-produced number. The backend relays whatever the model
// wrote, so quoted values such as "85" or "85%" are accepted too.
type Score float64

func (s *Score) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*s = 0
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err == nil {
		*s = Score(f)
		return nil
	}
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return fmt.Errorf("score: expected number or numeric string, got %s", b)
	}
	str = strings.TrimSuffix(strings.TrimSpace(str), "%")
	if str == "" {
		*s = 0
		return nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(str), 64)
	if err != nil {
		return fmt.Errorf("score: %w", err)
	}
	*s = Score(f)
	return nil
}

// TextList is a list of model-produced strings; a lone string decodes as a
// one-element list.
type TextList []string

func (l *TextList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}
	var items []string
	if err := json.Unmarshal(b, &items); err == nil {
		*l = items
		return nil
	}
	var one string
	if err := json.Unmarshal(b, &one); err != nil {
		return fmt.Errorf("text list: expected array of strings or string, got %s", b)
	}
	if one == "" {
		*l = nil
		return nil
	}
	*l = TextList{one}
	return nil
}
