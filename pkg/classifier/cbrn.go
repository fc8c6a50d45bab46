package classifier

// NewCBRNDetector creates the built-in detector for chemical, biological,
// radiological, and nuclear risk.
func NewCBRNDetector() (*LexicalDetector, error) {
	return NewLexicalDetector(LexicalConfig{
		Category:      CategoryCBRN,
		SeverityBands: [3]float64{0.4, 0.6, 0.8},
		Patterns: []Pattern{
			// Chemical weapons and synthesis
			{Expr: `(synthesis|synthesize|manufacture|produce|create).{0,50}(nerve agent|VX|sarin|tabun|soman|novichok)`, Weight: 0.95, Signal: "nerve_agent_synthesis"},
			{Expr: `(synthesis|production|manufacture).{0,50}(chemical|compound|substance).{0,30}(weapon|harmful|toxic|lethal)`, Weight: 0.85, Signal: "chemical_weapon_general"},
			{Expr: `(precursor|ingredient|component).{0,30}(chemical weapon|nerve agent|toxic agent)`, Weight: 0.8, Signal: "precursor_inquiry"},
			{Expr: `(home.?lab|garage|basement).{0,50}(synthesis|production|manufacture).{0,30}(chemical|toxin|poison)`, Weight: 0.9, Signal: "home_synthesis"},

			// Biological weapons and pathogens
			{Expr: `(weaponize|weaponization|aerosolize).{0,30}(pathogen|virus|bacteria|biological agent)`, Weight: 0.95, Signal: "bioweapon_creation"},
			{Expr: `(culture|grow|cultivate|engineer).{0,50}(anthrax|smallpox|plague|ebola|engineered pathogen)`, Weight: 0.9, Signal: "dangerous_pathogen"},
			{Expr: `(genetic modification|gene editing|CRISPR).{0,50}(increase virulence|enhance lethality|bypass immunity)`, Weight: 0.85, Signal: "pathogen_engineering"},
			{Expr: `(biological weapon|bioweapon|pathogen).{0,30}(disperse|spread|release|deploy)`, Weight: 0.9, Signal: "bioweapon_deployment"},

			// Nuclear and radiological
			{Expr: `(enrich|enrichment).{0,30}(uranium|plutonium|fissile material)`, Weight: 0.9, Signal: "nuclear_enrichment"},
			{Expr: `(nuclear|atomic).{0,30}(weapon|bomb|device).{0,30}(build|construct|design|blueprint)`, Weight: 0.95, Signal: "nuclear_weapon"},
			{Expr: `(dirty bomb|radiological dispersal|radiation weapon)`, Weight: 0.85, Signal: "radiological_weapon"},
			{Expr: `(centrifuge cascade|isotope separation|nuclear fuel cycle).{0,30}(design|build|operate)`, Weight: 0.8, Signal: "nuclear_technology"},

			// Dual-use concerns
			{Expr: `(dual.?use|dual.?purpose).{0,30}(technology|equipment|material).{0,30}(acquire|purchase|obtain)`, Weight: 0.7, Signal: "dual_use_acquisition"},
			{Expr: `(bypass|circumvent|evade).{0,30}(export control|sanctions|monitoring|detection)`, Weight: 0.75, Signal: "control_evasion"},

			// General indicators
			{Expr: `(mass casualty|mass destruction|widespread harm|maximum damage)`, Weight: 0.6, Signal: "harm_intent"},
			{Expr: `(terrorist|terrorism|extremist).{0,30}(chemical|biological|nuclear|radiological)`, Weight: 0.8, Signal: "terrorist_context"},
		},
		Context: []Pattern{
			{Expr: `(chemistry|biology|nuclear).{0,20}(homework|assignment|research paper|thesis)`, Weight: -0.3, Signal: "academic_context"},
			{Expr: `(fiction|novel|movie|game|story).{0,30}(chemical|biological|nuclear)`, Weight: -0.2, Signal: "fictional_context"},
			{Expr: `(safety|security|defense|protection).{0,20}(against|from|measure)`, Weight: -0.2, Signal: "defensive_context"},
		},
	})
}
