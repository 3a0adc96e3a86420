package match

// Static scoring vocabularies, version 1. Kept as data so they can be
// revised without touching the scoring logic and so tests can target them
// directly.

// techVocabulary is the fixed list of technical terms mined from resume and
// job description text via substring matching. Multi-word terms are added
// to the keyword set with their spaces removed.
var techVocabulary = []string{
	"python", "java", "javascript", "sql", "aws", "azure", "gcp",
	"docker", "kubernetes", "react", "angular", "vue", "node",
	"postgresql", "mysql", "mongodb", "redis", "kafka", "spark",
	"airflow", "tableau", "power bi", "excel", "git", "ci/cd",
	"fastapi", "django", "flask", "spring", "tensorflow", "pytorch",
	"api", "rest", "graphql", "microservices", "agile", "scrum",
	"machine learning", "data science", "etl", "bi", "analytics",
}

// stopwords are dropped during tokenization.
var stopwords = map[string]struct{}{
	"and": {}, "or": {}, "the": {}, "a": {}, "an": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {},
}

// Seniority cues detected in job titles, with the years-of-experience
// thresholds applied per cue class.
var (
	juniorCues = []string{"junior", "entry", "associate"}
	seniorCues = []string{"senior", "lead", "principal", "staff"}
)
