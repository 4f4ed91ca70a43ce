package models

// FieldError は1つのフィールドに対するバリデーション違反です。
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validate はフィールド制約を検証し、違反のリストを返します。
// 最初の違反で止まらず、すべての違反を集めて返します。
// 永続化層に依存しない純粋関数です。
func (in *GameInput) Validate() []FieldError {
	var errs []FieldError

	if in.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	}
	if len(in.Genres) == 0 {
		errs = append(errs, FieldError{Field: "genres", Message: "at least one genre is required"})
	}
	if in.ReleaseYear != nil && *in.ReleaseYear < 1950 {
		errs = append(errs, FieldError{Field: "release_year", Message: "release_year must be 1950 or later"})
	}
	if in.MetacriticScore != nil && (*in.MetacriticScore < 0 || *in.MetacriticScore > 100) {
		errs = append(errs, FieldError{Field: "metacritic_score", Message: "metacritic_score must be between 0 and 100"})
	}
	if in.HoursPlayed != nil && *in.HoursPlayed < 0 {
		errs = append(errs, FieldError{Field: "hours_played", Message: "hours_played must not be negative"})
	}

	return errs
}
