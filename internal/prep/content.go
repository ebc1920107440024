package prep

import (
	"fmt"
	"strings"
)

// CodingQuestion is one practice problem with study links.
type CodingQuestion struct {
	Title    string `json:"title"`
	LeetCode string `json:"leetcode"`
	YouTube  string `json:"youtube"`
}

// Content is an interview preparation guide for one company and role.
type Content struct {
	SelectionProcess   []string         `json:"selectionProcess"`
	SalaryRange        string           `json:"salaryRange"`
	CodingQuestions    []CodingQuestion `json:"codingQuestions"`
	HRQuestions        []string         `json:"hrQuestions"`
	ExpQuestions       string           `json:"expQuestions"`
	ZeroToHeroStrategy []string         `json:"zeroToHeroStrategy"`
	Source             string           `json:"source"`
}

// FallbackSource marks content that came from the static guides.
const FallbackSource = "static"

func (c Content) usable() bool {
	return len(c.SelectionProcess) > 0 || len(c.CodingQuestions) > 0
}

func leet(title, slug, query string) CodingQuestion {
	return CodingQuestion{
		Title:    title,
		LeetCode: "https://leetcode.com/problems/" + slug + "/",
		YouTube:  "https://youtube.com/results?search_query=" + query,
	}
}

type companyGuide struct {
	key              string
	selectionProcess []string
	codingQuestions  []CodingQuestion
	hrQuestions      []string
	salaryRange      string
}

// Checked in order; the first key contained in the company name wins.
var companyGuides = []companyGuide{
	{
		key:              "google",
		selectionProcess: []string{"Phone Screen", "Technical Round 1 (Graphs/Trees)", "Technical Round 2 (System Design)", "Googleyness & Leadership", "Team Matching"},
		codingQuestions: []CodingQuestion{
			leet("LRU Cache", "lru-cache", "lru+cache+leetcode"),
			leet("Word Ladder", "word-ladder", "word+ladder+leetcode"),
			leet("Serialize and Deserialize Binary Tree", "serialize-and-deserialize-binary-tree", "serialize+deserialize+tree"),
		},
		hrQuestions: []string{
			"Why Google?",
			"Tell me about a time you disagreed with your manager",
			"How do you handle ambiguity?",
			"Describe a project you're most proud of",
		},
		salaryRange: "₹35L - ₹60L (L3-L4)",
	},
	{
		key:              "amazon",
		selectionProcess: []string{"Online Assessment", "Technical Round 1", "Technical Round 2", "Bar Raiser Round", "Hiring Manager Round"},
		codingQuestions: []CodingQuestion{
			leet("Two Sum", "two-sum", "two+sum"),
			leet("Merge K Sorted Lists", "merge-k-sorted-lists", "merge+k+sorted+lists"),
			leet("LRU Cache", "lru-cache", "lru+cache"),
		},
		hrQuestions: []string{
			"Tell me about a time you failed (Ownership)",
			"Describe a time you had to make a decision with incomplete information (Bias for Action)",
			"How do you handle customer complaints? (Customer Obsession)",
			"Tell me about a time you simplified a process (Invent and Simplify)",
		},
		salaryRange: "₹30L - ₹55L (SDE2)",
	},
	{
		key:              "microsoft",
		selectionProcess: []string{"Online Assessment", "Technical Round 1", "Technical Round 2", "Hiring Manager Round", "AA/AS Round"},
		codingQuestions: []CodingQuestion{
			leet("Reverse Linked List", "reverse-linked-list", "reverse+linked+list"),
			leet("Binary Tree Level Order Traversal", "binary-tree-level-order-traversal", "level+order+traversal"),
			leet("Design Tic-Tac-Toe", "design-tic-tac-toe", "design+tic+tac+toe"),
		},
		hrQuestions: []string{
			"Why Microsoft?",
			"How do you stay updated with technology?",
			"Describe a time you worked in a team",
			"What's your experience with Azure/Cloud?",
		},
		salaryRange: "₹40L - ₹70L (L61-L62)",
	},
}

// Fallback returns the static guide for company: a company-specific one when
// the name contains a known key, otherwise the generic guide.
func Fallback(company string) Content {
	lower := strings.ToLower(company)
	for _, g := range companyGuides {
		if !strings.Contains(lower, g.key) {
			continue
		}
		return Content{
			SelectionProcess: g.selectionProcess,
			SalaryRange:      g.salaryRange,
			CodingQuestions:  g.codingQuestions,
			HRQuestions:      g.hrQuestions,
			ExpQuestions: fmt.Sprintf("Design a scalable system similar to %s's core product. "+
				"Consider load balancing, caching, and database sharding.", company),
			ZeroToHeroStrategy: []string{
				fmt.Sprintf("Day 1-2: Master %s's most asked data structures (Arrays, Trees, Graphs)", company),
				fmt.Sprintf("Day 3-4: Practice %s-specific problem patterns", company),
				fmt.Sprintf("Day 5-6: System design + %s culture research", company),
				"Day 7: Mock interviews with STAR method for behavioral",
			},
			Source: FallbackSource,
		}
	}

	return Content{
		SelectionProcess: []string{"Online Assessment", "Technical Round 1", "Technical Round 2", "HR Round"},
		SalaryRange:      "₹15L - ₹35L (varies by experience)",
		CodingQuestions: []CodingQuestion{
			leet("Two Sum", "two-sum", "two+sum"),
			leet("Valid Parentheses", "valid-parentheses", "valid+parentheses"),
			leet("Merge Intervals", "merge-intervals", "merge+intervals"),
		},
		HRQuestions: []string{
			"Tell me about yourself",
			fmt.Sprintf("Why %s?", company),
			"Where do you see yourself in 5 years?",
			"Describe a challenging project",
		},
		ExpQuestions: fmt.Sprintf("Design a system for %s's core product. Focus on scalability and reliability.", company),
		ZeroToHeroStrategy: []string{
			"Day 1-2: Arrays, Strings, HashMaps",
			"Day 3-4: Trees, Graphs, DP",
			fmt.Sprintf("Day 5-6: %s research + system design", company),
			"Day 7: Mock interviews",
		},
		Source: FallbackSource,
	}
}
