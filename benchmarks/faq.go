package benchmarks

type FAQItem struct {
	ID       string
	Question string
	Answer   []string
}

var faq = []FAQItem{
	{
		ID:       "what-is-this",
		Question: "What is this?",
		Answer: []string{
			"Role-based testing of local LLMs on consumer hardware (RTX 3060 12GB). Real constraints, real performance.",
			"The lab tests how well local models handle actual professional tasks rather than synthetic benchmarks.",
		},
	},
	{
		ID:       "testing-framework",
		Question: "Testing Framework",
		Answer: []string{
			"Nine professional roles: coding, architecture, reasoning, chat, content writing, agent logic, technical writing, data analysis and research.",
			"Objective scoring through code execution, math verification, structure analysis and quality metrics.",
			"More than 120 tests run every month across all models and roles.",
		},
	},
	{
		ID:       "why-this-matters",
		Question: "Why This Matters",
		Answer: []string{
			"Most benchmarks assume unlimited compute. This shows what is possible on $400 hardware.",
			"Every result is reproducible and every prompt is visible.",
		},
	},
	{
		ID:       "tech-stack",
		Question: "Tech Stack",
		Answer: []string{
			"Models run on Ollama for local inference, with Docker, Postgres and n8n underneath.",
			"Scheduled tests report to Slack. The whole system runs on a single machine.",
		},
	},
	{
		ID:       "open-source",
		Question: "Open Source",
		Answer: []string{
			"The benchmark framework is open source: run the same tests on your hardware and compare results.",
		},
	},
}
