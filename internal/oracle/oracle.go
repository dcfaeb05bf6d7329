package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

// Validator judges answers with a local pre-filter in front of an OpenAI
// chat model. When no API client is configured it degrades to accepting
// everything the pre-filter lets through, at reduced confidence, so the
// game stays playable in development.
type Validator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// Config for New. Model and Timeout fall back to sane defaults.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

const (
	defaultModel   = openai.GPT4oMini
	defaultTimeout = 5 * time.Second

	// Confidence attached to verdicts the model never saw.
	prefilterConfidence = 1.0
	degradedConfidence  = 0.4
	failureConfidence   = 0.3
)

func New(cfg Config, logger *slog.Logger) *Validator {
	v := &Validator{
		model:   cfg.Model,
		timeout: cfg.Timeout,
		logger:  logger,
	}
	if v.model == "" {
		v.model = defaultModel
	}
	if v.timeout <= 0 {
		v.timeout = defaultTimeout
	}
	if cfg.APIKey != "" {
		v.client = openai.NewClient(cfg.APIKey)
	} else {
		logger.Warn("no OpenAI API key configured, answer validation degraded")
	}
	return v
}

// Validate implements the game oracle contract. Any model failure counts
// as invalid at low confidence, which keeps the answer appealable instead
// of handing out free points on an outage.
func (v *Validator) Validate(ctx context.Context, answer, category, letter string) (bool, string, float64) {
	if reason := prefilterReject(answer, letter); reason != "" {
		return false, reason, prefilterConfidence
	}

	if v.client == nil {
		return true, "accepted without validation", degradedConfidence
	}

	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	verdict, err := v.ask(ctx, answer, category, letter)
	if err != nil {
		v.logger.Error("oracle call failed", "category", category, "error", err)
		return false, "validation unavailable", failureConfidence
	}
	return verdict.Valid, verdict.Reason, clamp01(verdict.Confidence)
}

type modelVerdict struct {
	Valid      bool    `json:"valid"`
	Reason     string  `json:"reason"`
	Confidence float64 `json:"confidence"`
}

func (v *Validator) ask(ctx context.Context, answer, category, letter string) (modelVerdict, error) {
	resp, err := v.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       v.model,
		Temperature: 0,
		MaxTokens:   150,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(answer, category, letter)},
		},
	})
	if err != nil {
		return modelVerdict{}, err
	}
	if len(resp.Choices) == 0 {
		return modelVerdict{}, fmt.Errorf("empty completion")
	}

	var verdict modelVerdict
	raw := stripFences(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return modelVerdict{}, fmt.Errorf("parse verdict %q: %w", raw, err)
	}
	return verdict, nil
}

const systemPrompt = `Eres el juez de una partida de Basta (Tutti Frutti). ` +
	`Decides si una respuesta es una palabra real en español que pertenece a la ` +
	`categoría dada y empieza con la letra indicada. Acepta variantes regionales ` +
	`y errores ortográficos leves. Responde SOLO con JSON: ` +
	`{"valid": bool, "reason": "breve explicación en español", "confidence": 0.0-1.0}`

// categoryExamples anchor the judge with two known-good answers per
// category, which cuts down hallucinated rejections noticeably.
var categoryExamples = map[string]string{
	"Nombre":              "María, Pedro",
	"Animal":              "Perro, Águila",
	"País o Ciudad":       "México, Lima",
	"Fruta":               "Manzana, Uva",
	"Objeto":              "Mesa, Lámpara",
	"Color":               "Azul, Rojo",
	"Profesión":           "Doctor, Arquitecta",
	"Canción":             "Bésame Mucho, La Bamba",
	"Artista musical":     "Shakira, Queen",
	"Videojuego":          "Tetris, Minecraft",
	"Marca":               "Nike, Toyota",
	"Comida":              "Tacos, Paella",
	"Película":            "Titanic, Coco",
	"Serie de TV":         "Friends, Betty la Fea",
	"Monumento":           "Machu Picchu, Alhambra",
	"Libro":               "Don Quijote, Rayuela",
	"Deporte":             "Fútbol, Natación",
	"Evento histórico":    "Revolución Francesa, Independencia",
	"Empresa":             "Telmex, Iberia",
	"Personaje famoso":    "Frida Kahlo, Messi",
	"Universidad":         "UNAM, Salamanca",
	"Instrumento musical": "Guitarra, Piano",
	"Superhéroe":          "Batman, Superman",
}

func buildPrompt(answer, category, letter string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Categoría: %s\n", category)
	if examples, ok := categoryExamples[category]; ok {
		fmt.Fprintf(&b, "Ejemplos válidos: %s\n", examples)
	}
	fmt.Fprintf(&b, "Letra: %s\n", letter)
	fmt.Fprintf(&b, "Respuesta del jugador: %q\n", answer)
	b.WriteString("¿Es válida?")
	return b.String()
}

// stripFences unwraps ```json blocks some models insist on.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	}
	return f
}
