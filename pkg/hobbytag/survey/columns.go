package survey

import "regexp"

// Question texts of the IVIS23 export
const (
	ColTimestamp = "Timestamp"
	ColAlias     = "What is your alias? An Alias is a secret name you give yourself. For example: Nintendo65. Please, send your alias through the assignment text field on Canvas to complete and get a grade for this assignment."
	ColHobby     = "Please, tell me about yourself. What interest you? Do you have any hobbies?"
	ColCollab    = "How would you rate your collaboration skills?"
	ColRepo      = "How would you rate your code repository skills?"
)

// RatingColumn binds a rating key to its question text
type RatingColumn struct {
	Key    string
	Header string
}

// IVISRatingColumns are the rating columns of the final schema, in output
// order. Collaboration and code repository come last and live only in the
// ratings map.
var IVISRatingColumns = []RatingColumn{
	{Key: "information_visualization", Header: "How would you rate your Information Visualization skills?"},
	{Key: "statistical", Header: "How would you rate your statistical skills?"},
	{Key: "mathematics", Header: "How would you rate your mathematics skills?"},
	{Key: "drawing_and_artistic", Header: "How would you rate your drawing and artistic skills?"},
	{Key: "computer_usage", Header: "How would you rate your computer usage skills?"},
	{Key: "programming", Header: "How would you rate your programming skills?"},
	{Key: "computer_graphics_programming", Header: "How would you rate your computer graphics programming skills?"},
	{Key: "human_computer_interaction_programming", Header: "How would you rate your human-computer interaction programming skills?"},
	{Key: "user_experience_evaluation", Header: "How would you rate your user experience evaluation skills?"},
	{Key: "communication", Header: "How would you rate your communication skills?"},
	{Key: "collaboration", Header: ColCollab},
	{Key: "code_repository", Header: ColRepo},
}

// IVISRatingKeys returns the final-schema rating keys in output order
func IVISRatingKeys() []string {
	keys := make([]string, len(IVISRatingColumns))
	for i, c := range IVISRatingColumns {
		keys[i] = c.Key
	}
	return keys
}

var yearPattern = regexp.MustCompile(`(?:19|20)\d{2}`)

// YearFromTimestamp returns the first 19xx/20xx year in a timestamp, or ""
func YearFromTimestamp(ts string) string {
	return yearPattern.FindString(ts)
}
