package catalog

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/rgimusa/storefront/internal/domain"
	"google.golang.org/genai"
)

var idListPattern = regexp.MustCompile(`(?s)\[.*\]`)

// GeminiRanker ranks products with a Gemini text model
type GeminiRanker struct {
	client *genai.Client
	model  string
}

func NewGeminiRanker(ctx context.Context, apiKey, model string) (*GeminiRanker, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key not configured")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "create genai client")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiRanker{client: client, model: model}, nil
}

func (g *GeminiRanker) Rank(ctx context.Context, query string, products []domain.Product, limit int) ([]string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(BuildRankPrompt(query, products, limit)),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.1),
			TopP:        genai.Ptr[float32](0.8),
		})
	if err != nil {
		return nil, errors.Wrap(err, "gemini generate")
	}
	return ParseIDList(resp.Text())
}

// BuildRankPrompt lists the catalog and asks for a json array of ids
func BuildRankPrompt(query string, products []domain.Product, limit int) string {
	var sb strings.Builder
	sb.WriteString("Eres un asistente de búsqueda para una tienda en línea. Encuentra los productos más relevantes para la consulta del usuario.\n\n")
	fmt.Fprintf(&sb, "CONSULTA DEL USUARIO: %q\n\nPRODUCTOS DISPONIBLES:\n", query)
	for _, p := range products {
		fmt.Fprintf(&sb, "ID: %s | Nombre: %s | Descripción: %s %s | Categoría: %s | Precio: $%.2f\n",
			p.ID, p.Name, p.Short, p.Description, p.CategoryID, p.Price)
	}
	fmt.Fprintf(&sb, "\nDevuelve SOLO un array JSON con los IDs ordenados por relevancia, máximo %d resultados. ", limit)
	sb.WriteString("Si no hay productos relevantes devuelve [].\n")
	return sb.String()
}

// ParseIDList extracts the first json array from a model answer
func ParseIDList(text string) ([]string, error) {
	m := idListPattern.FindString(strings.TrimSpace(text))
	if m == "" {
		return nil, errors.New("no id list in model response")
	}
	var raw []interface{}
	if err := json.Unmarshal([]byte(m), &raw); err != nil {
		return nil, errors.Wrap(err, "parse model response")
	}
	ids := make([]string, 0, len(raw))
	for _, v := range raw {
		switch id := v.(type) {
		case string:
			ids = append(ids, id)
		case float64:
			ids = append(ids, fmt.Sprintf("%v", id))
		}
	}
	return ids, nil
}
