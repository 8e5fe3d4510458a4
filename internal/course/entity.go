package course

import (
	"time"

	"github.com/google/uuid"
	"github.com/saulo-duarte/natije-api/internal/user"
	"gorm.io/gorm"
)

type Course struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Price       float64   `gorm:"type:numeric(10,2);not null" json:"price"`
	Image       string    `gorm:"size:512;index" json:"image"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User        user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (c *Course) OwnerID() uuid.UUID { return c.UserID }

// BoughtCourse is the purchase proof that unlocks prime lessons.
type BoughtCourse struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bought_user_course" json:"user_id"`
	User      user.User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_bought_user_course" json:"course_id"`
	Course    Course    `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

func (b *BoughtCourse) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

type CourseTheme struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;uniqueIndex;not null" json:"title"`
	Description string    `gorm:"size:255" json:"description"`
	PublishedAt time.Time `gorm:"autoCreateTime" json:"date_published"`
	CourseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"course"`
	Course      *Course   `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *CourseTheme) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

func (t *CourseTheme) OwnerID() uuid.UUID {
	if t.Course == nil {
		return uuid.Nil
	}
	return t.Course.OwnerID()
}

type Lesson struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	Title         string        `gorm:"size:255;not null;index" json:"title"`
	LessonNumber  int           `gorm:"not null;uniqueIndex" json:"lesson_number"`
	VideoLink     string        `gorm:"size:512;not null" json:"video_link"`
	Duration      time.Duration `gorm:"not null" json:"duration"`
	IsPrime       bool          `gorm:"not null" json:"is_prime"`
	CourseThemeID uuid.UUID     `gorm:"type:uuid;not null;index" json:"course_theme"`
	CourseTheme   *CourseTheme  `gorm:"foreignKey:CourseThemeID;constraint:OnDelete:CASCADE" json:"-"`
}

func (l *Lesson) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (l *Lesson) OwnerID() uuid.UUID {
	if l.CourseTheme == nil {
		return uuid.Nil
	}
	return l.CourseTheme.OwnerID()
}

func (l *Lesson) IsPrimeContent() bool { return l.IsPrime }

func (l *Lesson) GatingCourseID() uuid.UUID {
	if l.CourseTheme == nil {
		return uuid.Nil
	}
	return l.CourseTheme.CourseID
}

type LessonMaterial struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	File        string    `gorm:"size:512" json:"material"`
	LessonID    uuid.UUID `gorm:"type:uuid;not null;index" json:"lesson"`
	Lesson      *Lesson   `gorm:"foreignKey:LessonID;constraint:OnDelete:CASCADE" json:"-"`
}

func (m *LessonMaterial) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func (m *LessonMaterial) OwnerID() uuid.UUID {
	if m.Lesson == nil {
		return uuid.Nil
	}
	return m.Lesson.OwnerID()
}

// Models lists the tables owned by this package in migration order.
func Models() []any {
	return []any{&Course{}, &BoughtCourse{}, &CourseTheme{}, &Lesson{}, &LessonMaterial{}}
}
