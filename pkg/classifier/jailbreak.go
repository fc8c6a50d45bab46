package classifier

// NewJailbreakDetector creates the built-in detector for attempts to bypass
// or override safety measures.
func NewJailbreakDetector() (*LexicalDetector, error) {
	return NewLexicalDetector(LexicalConfig{
		Category:      CategoryJailbreak,
		SeverityBands: [3]float64{0.4, 0.6, 0.85},
		Patterns: []Pattern{
			// Direct override attempts
			{Expr: `ignore.{0,20}(previous|prior|all).{0,20}(instructions|rules|guidelines|constraints)`, Weight: 0.95, Signal: "ignore_instructions"},
			{Expr: `disregard.{0,20}(safety|ethical|content).{0,20}(guidelines|rules|policies)`, Weight: 0.9, Signal: "disregard_safety"},
			{Expr: `(developer|debug|admin|root).{0,20}mode`, Weight: 0.85, Signal: "privileged_mode"},

			// Role-play jailbreaks
			{Expr: `(you are now|act as|pretend to be).{0,30}(DAN|evil|unfiltered|unrestricted)`, Weight: 0.9, Signal: "roleplay_jailbreak"},
			{Expr: `(play|assume).{0,20}(character|role).{0,30}(no limits|no restrictions|no rules)`, Weight: 0.85, Signal: "character_override"},
			{Expr: `(hypothetical|theoretical).{0,30}(no safety|ignore ethics|break rules)`, Weight: 0.8, Signal: "hypothetical_bypass"},

			// Token and prompt injection; casing carries signal here.
			{Expr: `</?(system|instruction|safety)>`, Weight: 0.8, Signal: "tag_injection", CaseSensitive: true},
			{Expr: `(### |>>> |\[INST\]|<\|im_start\|>)`, Weight: 0.7, Signal: "prompt_injection", CaseSensitive: true},
			{Expr: `\n\n\n.{0,50}(new conversation|start over|reset)`, Weight: 0.75, Signal: "context_break"},

			// Known jailbreak names and methods
			{Expr: `(DAN|Do Anything Now|STAN|DUDE|Unlocked)`, Weight: 0.85, Signal: "known_jailbreak"},
			{Expr: `(grandmother|grandma).{0,30}(used to tell|would say).{0,30}(how to)`, Weight: 0.8, Signal: "grandma_exploit"},
			{Expr: `opposite.{0,20}day|oppositeworld`, Weight: 0.75, Signal: "opposite_day"},

			// Encoding attempts
			{Expr: `(base64|rot13|caesar|encode|cipher).{0,30}(decode|translate|convert)`, Weight: 0.7, Signal: "encoding_attempt"},
			{Expr: `(reverse|backward|mirror).{0,20}(text|writing|message)`, Weight: 0.65, Signal: "obfuscation"},

			// Meta-prompting
			{Expr: `(tell me|show me|reveal).{0,30}(system prompt|instructions|constraints)`, Weight: 0.8, Signal: "prompt_extraction"},
			{Expr: `(what are|list).{0,20}(your rules|your limitations|restrictions)`, Weight: 0.7, Signal: "rule_extraction"},

			// Adversarial prefixes
			{Expr: `^(Sure|Certainly|Of course).{0,10}(here's how|I'll explain)`, Weight: 0.6, Signal: "compliance_prefix"},
			{Expr: `(step.?by.?step|detailed).{0,20}(instructions|guide).{0,30}(illegal|harmful|dangerous)`, Weight: 0.85, Signal: "harmful_tutorial"},
		},
		Context: []Pattern{
			{Expr: `(research|study|paper).{0,30}(AI safety|jailbreak|security)`, Weight: -0.3, Signal: "research_context"},
			{Expr: `(example|demonstrate|explain).{0,30}(what not to do|bad prompt|security risk)`, Weight: -0.25, Signal: "educational_context"},
			{Expr: `(test|testing|evaluate).{0,30}(safety|security|robustness)`, Weight: -0.2, Signal: "testing_context"},
		},
	})
}
