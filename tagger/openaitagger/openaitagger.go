// Package openaitagger is a concrete tagger.VisionTagger backend built on
// eino's OpenAI-compatible chat-completions client. It is the only package
// in this repository that imports eino directly — the core pipeline
// depends solely on tagger.VisionTagger, so a run with the heuristic or a
// fake tagger never touches the network.
package openaitagger

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/schema"

	"github.com/tsawler/fastvision/tagger"
)

// Tagger sends block batches to an OpenAI-compatible chat-completions
// model and parses the strict {"blocks":[...]} response contract.
type Tagger struct {
	chatModel *openai.ChatModel
}

// Config configures the backend. BaseURL is optional, for OpenAI-compatible
// gateways other than api.openai.com.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string // defaults to "gpt-4o-mini"
}

// New constructs an OpenAI-backed tagger.
func New(ctx context.Context, cfg Config) (*Tagger, error) {
	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	chatModelConfig := &openai.ChatModelConfig{
		Model:  model,
		APIKey: cfg.APIKey,
	}
	if cfg.BaseURL != "" {
		chatModelConfig.BaseURL = cfg.BaseURL
	}

	chatModel, err := openai.NewChatModel(ctx, chatModelConfig)
	if err != nil {
		return nil, fmt.Errorf("creating openai chat model: %w", err)
	}

	return &Tagger{chatModel: chatModel}, nil
}

type apiResponse struct {
	Blocks []apiBlock `json:"blocks"`
}

type apiBlock struct {
	BlockIndex       int              `json:"block_index"`
	BlockType        string           `json:"block_type"`
	Role             string           `json:"role"`
	ReadingOrder     int              `json:"reading_order"`
	Rhetoric         *apiRhetoric     `json:"rhetoric"`
	RhetoricFeatures *apiRhetoricFeat `json:"rhetoric_features"`
}

type apiRhetoric struct {
	Tone     string `json:"tone"`
	Voice    string `json:"voice"`
	Modality string `json:"modality"`
	Tense    string `json:"tense"`
	Domain   string `json:"domain"`
}

type apiRhetoricFeat struct {
	AvgSentenceLength *float64 `json:"avg_sentence_length"`
	ModalDensity      *float64 `json:"modal_density"`
	PassiveRatio      *float64 `json:"passive_ratio"`
	LegalTermDensity  *float64 `json:"legal_term_density"`
}

// TagBatch implements tagger.VisionTagger. pageImage is currently unused:
// this backend classifies from text alone (no page-image renderer is wired
// into this repository).
func (t *Tagger) TagBatch(ctx context.Context, pageImage []byte, blocks []tagger.BlockSummary) ([]tagger.Tag, error) {
	// blocks arrive already truncated by tagger.Dispatch; encode as-is.
	blocksJSON, err := tagger.EncodeBatch(blocks, 1<<30)
	if err != nil {
		return nil, fmt.Errorf("encoding block batch: %w", err)
	}

	messages := []*schema.Message{
		schema.SystemMessage(tagger.SemanticTaggerSystem),
		schema.UserMessage(tagger.BuildUserPrompt(len(blocks), blocksJSON)),
	}

	resp, err := t.chatModel.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("chat model generate: %w", err)
	}

	var parsed apiResponse
	if err := json.Unmarshal([]byte(resp.Content), &parsed); err != nil {
		return nil, fmt.Errorf("parsing tagger response: %w", err)
	}

	tags := make([]tagger.Tag, 0, len(parsed.Blocks))
	for _, b := range parsed.Blocks {
		tag := tagger.Tag{
			BlockIndex:   b.BlockIndex,
			BlockType:    b.BlockType,
			Role:         b.Role,
			ReadingOrder: b.ReadingOrder,
		}
		if b.Rhetoric != nil {
			tag.Rhetoric = &tagger.Rhetoric{
				Tone:     b.Rhetoric.Tone,
				Voice:    b.Rhetoric.Voice,
				Modality: b.Rhetoric.Modality,
				Tense:    b.Rhetoric.Tense,
				Domain:   b.Rhetoric.Domain,
			}
		}
		if b.RhetoricFeatures != nil {
			tag.RhetoricFeatures = &tagger.RhetoricFeatures{
				AvgSentenceLength: b.RhetoricFeatures.AvgSentenceLength,
				ModalDensity:      b.RhetoricFeatures.ModalDensity,
				PassiveRatio:      b.RhetoricFeatures.PassiveRatio,
				LegalTermDensity:  b.RhetoricFeatures.LegalTermDensity,
			}
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
