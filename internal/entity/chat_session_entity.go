package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTitle is the placeholder a session keeps until a title is generated.
const DefaultSessionTitle = "New Study Session"

type Subject string

const (
	SubjectMathematics     Subject = "mathematics"
	SubjectPhysics         Subject = "physics"
	SubjectChemistry       Subject = "chemistry"
	SubjectBiology         Subject = "biology"
	SubjectComputerScience Subject = "computer_science"
	SubjectHistory         Subject = "history"
	SubjectLiterature      Subject = "literature"
	SubjectLanguage        Subject = "language"
	SubjectEconomics       Subject = "economics"
	SubjectOther           Subject = "other"
)

// Subjects lists every accepted subject category.
var Subjects = []Subject{
	SubjectMathematics,
	SubjectPhysics,
	SubjectChemistry,
	SubjectBiology,
	SubjectComputerScience,
	SubjectHistory,
	SubjectLiterature,
	SubjectLanguage,
	SubjectEconomics,
	SubjectOther,
}

func (s Subject) Valid() bool {
	for _, v := range Subjects {
		if s == v {
			return true
		}
	}
	return false
}

// DisplayName turns "computer_science" into "Computer Science".
func (s Subject) DisplayName() string {
	words := strings.Split(string(s), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

type ChatSession struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Title        string
	Subject      Subject
	IsActive     bool
	MessageCount int
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
