package quiz

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/user"
	"gorm.io/gorm"
)

type Quiz struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Completed   bool      `gorm:"not null" json:"completed"`
	IsTrial     bool      `gorm:"not null" json:"is_trial"`
	PublishedAt time.Time `gorm:"autoCreateTime" json:"date_published"`
	LastResult  int       `gorm:"not null" json:"last_result"`

	Questions []Question `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
}

func (q *Quiz) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

func (q *Quiz) IsTrialContent() bool { return q.IsTrial }

type Question struct {
	ID                        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title                     string    `gorm:"size:512;not null" json:"title"`
	HasMultipleCorrectAnswers bool      `gorm:"not null" json:"has_multiple_correct_answers"`
	QuizID                    uuid.UUID `gorm:"type:uuid;not null;index" json:"quiz"`
	CreatedAt                 time.Time `json:"created_at"`

	Variants []Variant `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"variants,omitempty"`
}

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}

type Variant struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title      string    `gorm:"size:155;not null" json:"title"`
	IsCorrect  bool      `gorm:"not null" json:"is_correct"`
	IsSelected bool      `gorm:"not null" json:"is_selected"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question"`
}

func (v *Variant) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

// UserAnswer is a pending choice, consumed by the next scoring pass.
type UserAnswer struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;index:idx_user_answers_user_quiz" json:"user"`
	User       user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	QuizID     uuid.UUID `gorm:"type:uuid;not null;index:idx_user_answers_user_quiz" json:"quiz"`
	Quiz       *Quiz     `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null" json:"question"`
	Question   *Question `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
	VariantID  uuid.UUID `gorm:"type:uuid;not null" json:"selected_choice"`
	Variant    *Variant  `gorm:"foreignKey:VariantID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

func (a *UserAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

type UserResult struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_results_user_quiz" json:"user"`
	User      user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	QuizID    uuid.UUID `gorm:"type:uuid;not null;index:idx_user_results_user_quiz" json:"quiz"`
	Quiz      *Quiz     `gorm:"foreignKey:QuizID;constraint:OnDelete:CASCADE" json:"-"`
	Score     int       `gorm:"not null" json:"score"`
	DateAdded time.Time `gorm:"not null;index" json:"date_added"`
}

func (r *UserResult) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Models lists the tables owned by this package in migration order.
func Models() []any {
	return []any{&Quiz{}, &Question{}, &Variant{}, &UserAnswer{}, &UserResult{}}
}
