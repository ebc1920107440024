// Package prep generates interview preparation guides with an LLM, falling
// back to static guides when no provider answers.
package prep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"go.uber.org/zap"
)

const systemPrompt = `You are a senior tech recruiter with access to GeeksforGeeks, Glassdoor, and LeetCode interview data.

Create a REALISTIC interview prep guide for {role} at {company} based on ACTUAL interview experiences.

Return ONLY valid JSON:
{
  "selectionProcess": ["Actual round names from {company}"],
  "salaryRange": "Current market rate in India for {role} at {company}",
  "codingQuestions": [
    {
      "title": "Actual problem asked at {company}",
      "leetcode": "https://leetcode.com/problems/exact-problem/",
      "youtube": "https://youtube.com/results?search_query=problem+name+solution"
    }
  ],
  "hrQuestions": ["Company-specific HR questions based on {company} culture"],
  "expQuestions": "Real system design question asked at {company}",
  "zeroToHeroStrategy": [
    "Day 1-2: Focus areas specific to {company} interview pattern",
    "Day 3-5: Practice {company}'s most asked problem types",
    "Day 6-7: Mock interviews + {company} culture research"
  ]
}

Be SPECIFIC to {company}. For example:
- Google: Focus on graphs, trees, system design
- Amazon: Leadership principles, OOP design
- Microsoft: Azure knowledge, behavioral STAR method
- Startups: Product thinking, full-stack breadth`

// Provider is one named LLM backend.
type Provider struct {
	Name  string
	Model llms.Model
}

// Generator produces prep Content. Model answers are cached per company and
// role; static fallbacks are not.
type Generator struct {
	providers []Provider
	cache     *expirable.LRU[string, Content]
	logger    *zap.Logger
}

// NewGenerator tries providers in order. size bounds the cache and ttl
// expires its entries.
func NewGenerator(providers []Provider, size int, ttl time.Duration, logger *zap.Logger) *Generator {
	return &Generator{
		providers: providers,
		cache:     expirable.NewLRU[string, Content](size, nil, ttl),
		logger:    logger,
	}
}

// Providers lists the configured provider names in order.
func (g *Generator) Providers() []string {
	names := make([]string, len(g.providers))
	for i, p := range g.providers {
		names[i] = p.Name
	}
	return names
}

// Generate returns a guide for role at company. It never fails: when every
// provider errors or returns unusable output the static guide is returned.
func (g *Generator) Generate(ctx context.Context, company, role string) Content {
	key := cacheKey(company, role)
	if c, ok := g.cache.Get(key); ok {
		return c
	}

	system := strings.NewReplacer("{role}", role, "{company}", company).Replace(systemPrompt)
	user := fmt.Sprintf("Generate interview prep for %s at %s. Include REAL questions asked at this company.", role, company)

	for _, p := range g.providers {
		c, err := ask(ctx, p.Model, system, user)
		if err != nil {
			g.logger.Warn("prep provider failed", zap.String("provider", p.Name), zap.Error(err))
			continue
		}
		c.Source = p.Name
		g.cache.Add(key, c)
		return c
	}
	return Fallback(company)
}

func ask(ctx context.Context, model llms.Model, system, user string) (Content, error) {
	resp, err := model.GenerateContent(ctx, []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, user),
	}, llms.WithTemperature(0.4), llms.WithMaxTokens(1500))
	if err != nil {
		return Content{}, err
	}
	if len(resp.Choices) == 0 {
		return Content{}, errors.New("no choices in response")
	}

	var c Content
	if err := json.Unmarshal([]byte(StripFences(resp.Choices[0].Content)), &c); err != nil {
		return Content{}, fmt.Errorf("decode prep json: %w", err)
	}
	if !c.usable() {
		return Content{}, errors.New("prep json has no rounds or questions")
	}
	return c, nil
}

// StripFences removes markdown code fences around a model answer.
func StripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

func cacheKey(company, role string) string {
	return strings.ToLower(strings.TrimSpace(company)) + "|" + strings.ToLower(strings.TrimSpace(role))
}
