package classifier

// NewExploitationDetector creates the built-in detector for offensive cyber
// capability and abuse tooling.
func NewExploitationDetector() (*LexicalDetector, error) {
	return NewLexicalDetector(LexicalConfig{
		Category:      CategoryExploitation,
		SeverityBands: [3]float64{0.4, 0.6, 0.8},
		Patterns: []Pattern{
			// Malware development
			{Expr: `(write|create|develop|build).{0,30}(malware|ransomware|keylogger|rootkit|trojan)`, Weight: 0.9, Signal: "malware_development"},
			{Expr: `(undetectable|evade|bypass).{0,30}(antivirus|detection|EDR|defender)`, Weight: 0.85, Signal: "av_evasion"},
			{Expr: `(worm|virus).{0,30}(spread|propagate|self.?replicat)`, Weight: 0.85, Signal: "self_propagation"},

			// Exploitation of systems
			{Expr: `(exploit|attack).{0,30}(vulnerability|CVE-\d{4}|zero.?day)`, Weight: 0.8, Signal: "vuln_exploitation"},
			{Expr: `(sql injection|xss|remote code execution|buffer overflow).{0,30}(payload|attack|exploit)`, Weight: 0.8, Signal: "injection_attack"},
			{Expr: `(privilege escalation|lateral movement|persistence).{0,30}(technique|method|how to)`, Weight: 0.75, Signal: "post_exploitation"},
			{Expr: `(crack|brute.?force|bypass).{0,30}(password|authentication|login|2fa|mfa)`, Weight: 0.75, Signal: "auth_bypass"},

			// Infrastructure abuse
			{Expr: `(ddos|denial of service).{0,30}(launch|attack|tool|botnet)`, Weight: 0.85, Signal: "ddos_attack"},
			{Expr: `(botnet|command and control|c2 server).{0,30}(build|setup|operate)`, Weight: 0.85, Signal: "botnet_operation"},

			// Social engineering at scale
			{Expr: `(phishing|spearphishing).{0,30}(campaign|template|email|page)`, Weight: 0.8, Signal: "phishing_campaign"},
			{Expr: `(steal|harvest|exfiltrate).{0,30}(credentials|cookies|tokens|data)`, Weight: 0.8, Signal: "data_exfiltration"},
			{Expr: `(impersonate|spoof).{0,30}(bank|government|company|identity)`, Weight: 0.7, Signal: "impersonation"},
		},
		Context: []Pattern{
			{Expr: `(pentest|penetration test|red team|ctf|capture the flag)`, Weight: -0.3, Signal: "authorized_testing"},
			{Expr: `(defend|defense|detect|mitigate|patch).{0,30}(against|attack|vulnerability)`, Weight: -0.25, Signal: "defensive_context"},
			{Expr: `(course|class|certification|textbook).{0,30}(security|hacking)`, Weight: -0.2, Signal: "educational_context"},
		},
	})
}
