package extractor

// GeneralSection is the catch-all label for lines that precede any
// recognized section keyword.
const GeneralSection = "MD&A-General"

// SectionRule maps a section label to the keywords that activate it.
// Rules are evaluated in declaration order and the first rule with any
// substring match wins, so broader rules belong later in the list.
type SectionRule struct {
	Label    string
	Keywords []string
}

// DefaultSectionRules covers banking, IT, energy, and conglomerate
// terminology across the indexed companies. Matching is plain substring,
// unscoped by word boundary; that occasionally misfires on incidental
// substrings and is an accepted approximation.
var DefaultSectionRules = []SectionRule{
	{
		Label: "Macro & Economic Environment",
		Keywords: []string{
			"economic environment",
			"global economic",
			"macroeconomic",
			"economic outlook",
			"interest rate environment",
			"global economy",
			"economic conditions",
			"geopolitical",
		},
	},
	{
		Label: "Industry & Sector Overview",
		Keywords: []string{
			"banking industry",
			"industry overview",
			"industry scenario",
			"indian banking",
			"it industry",
			"technology industry",
			"software industry",
			"oil and gas",
			"energy sector",
			"telecom sector",
			"retail sector",
			"industry trends",
		},
	},
	{
		Label: "Business Performance",
		Keywords: []string{
			"business performance",
			"overview of performance",
			"performance during the year",
			"review of the year",
			"business overview",
			"key highlights",
			"year in review",
		},
	},
	{
		Label: "Operating & Financial Performance",
		Keywords: []string{
			"operating performance",
			"financial performance",
			"review of operations",
			"operational performance",
			"financial results",
			"results of operations",
			"consolidated performance",
		},
	},
	{
		Label: "Segment Performance",
		Keywords: []string{
			"segment performance",
			"segment-wise performance",
			"business segments",
			"geographic performance",
			"vertical performance",
			"service line",
			"segment results",
		},
	},
	{
		Label: "Risks & Risk Management",
		Keywords: []string{
			"risk management",
			"key risks",
			"credit risk",
			"market risk",
			"operational risk",
			"risk factors",
			"principal risks",
			"enterprise risk",
			"cybersecurity risk",
			"regulatory risk",
			"liquidity risk",
		},
	},
	{
		Label: "Outlook & Strategy",
		Keywords: []string{
			"outlook",
			"future outlook",
			"strategy",
			"way forward",
			"forward looking",
			"strategic priorities",
			"strategic focus",
			"growth strategy",
			"digital strategy",
			"sustainability",
			"esg",
		},
	},
	{
		Label: "Human Capital",
		Keywords: []string{
			"human capital",
			"employees",
			"talent",
			"workforce",
			"people strategy",
			"attrition",
			"hiring",
		},
	},
	{
		Label: "Technology & Innovation",
		Keywords: []string{
			"technology initiatives",
			"digital transformation",
			"artificial intelligence",
			"cloud",
			"innovation",
			"research and development",
			"r&d",
		},
	},
}
