package mentorship

// MentorStats are the headline counters on the mentor dashboard.
type MentorStats struct {
	ActiveMentees     int     `json:"activeMentees"`
	CompletedSessions int     `json:"completedSessions"`
	UpcomingSessions  int     `json:"upcomingSessions"`
	Rating            float64 `json:"rating"`
	Earnings          float64 `json:"earnings"`
	ResponseRate      int     `json:"responseRate"`
}

// ScheduledSession is an upcoming session seen from the mentor's side.
type ScheduledSession struct {
	ID     string `json:"id"`
	Mentee string `json:"mentee"`
	Topic  string `json:"topic"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

// MenteeSummary is a mentee card with session progress.
type MenteeSummary struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Goal              string `json:"goal"`
	Progress          int    `json:"progress"`
	SessionsCompleted int    `json:"sessionsCompleted"`
	TotalSessions     int    `json:"totalSessions"`
}

// MentorOverview is the mentor's stats and mentee view. A mentor without a
// profile yet has an empty MentorID and zero counters.
type MentorOverview struct {
	MentorID         string             `json:"mentorId"`
	MentorName       string             `json:"mentorName"`
	Stats            MentorStats        `json:"mentorStats"`
	UpcomingSessions []ScheduledSession `json:"upcomingSessions"`
	RecentMentees    []MenteeSummary    `json:"recentMentees"`
}

// HasProfile reports whether the mentor appears in the marketplace yet.
func (o MentorOverview) HasProfile() bool { return o.MentorID != "" }

// PlatformStats are the admin dashboard counters.
type PlatformStats struct {
	TotalUsers           int     `json:"totalUsers"`
	ActiveMentorships    int     `json:"activeMentorships"`
	PendingVerifications int     `json:"pendingVerifications"`
	CompletedSessions    int     `json:"completedSessions"`
	AvgRating            float64 `json:"avgRating"`
	SuccessRate          int     `json:"successRate"`
}

// Revenue summarizes accepted mentorship bookings.
type Revenue struct {
	Total        float64 `json:"total"`
	Change       string  `json:"change"`
	Transactions int     `json:"transactions"`
	AvgValue     float64 `json:"avgValue"`
}

// Activity is one entry of the platform activity feed.
type Activity struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Time        string `json:"time"`
}

// PlatformOverview is the admin dashboard view model.
type PlatformOverview struct {
	Stats                PlatformStats         `json:"platformStats"`
	Mentors              []Mentor              `json:"mentors"`
	Requests             []Request             `json:"mentorRequests"`
	PendingVerifications []PendingVerification `json:"pendingVerifications"`
	RecentActivity       []Activity            `json:"recentActivity"`
	Revenue              Revenue               `json:"revenue"`
}

// MentorAccount is a mentor as the admin manages it, including capacity.
type MentorAccount struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Avatar          string   `json:"avatar"`
	Expertise       []string `json:"expertise"`
	Experience      string   `json:"experience"`
	Price           float64  `json:"price"`
	Verified        bool     `json:"verified"`
	Enabled         bool     `json:"enabled"`
	CurrentWorkload int      `json:"currentWorkload"`
	MaxWorkload     int      `json:"maxWorkload"`
	Bio             string   `json:"bio"`
	Rating          float64  `json:"rating"`
	TotalSessions   int      `json:"totalSessions"`
	Role            string   `json:"role"`
	Company         string   `json:"company"`
}

// AtCapacity reports whether the mentor cannot take another mentee.
func (m MentorAccount) AtCapacity() bool {
	return m.MaxWorkload > 0 && m.CurrentWorkload >= m.MaxWorkload
}

// Milestone is one checkpoint of a mentee's roadmap.
type Milestone struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	DueDate     string `json:"dueDate"`
}

// MenteeRoadmap is the admin's condensed view of a mentee's plan.
type MenteeRoadmap struct {
	Summary         string      `json:"summary"`
	SkillGaps       []string    `json:"skillGaps"`
	Milestones      []Milestone `json:"milestones"`
	CurrentProgress int         `json:"currentProgress"`
}

// MenteeAccount is a candidate as the admin manages it. Roadmap is nil until one
// has been generated.
type MenteeAccount struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Email      string         `json:"email"`
	Avatar     string         `json:"avatar"`
	TargetRole string         `json:"targetRole"`
	CareerGoal string         `json:"careerGoal"`
	ResumeURL  string         `json:"resumeUrl"`
	Status     string         `json:"status"`
	MentorID   string         `json:"mentorId"`
	Roadmap    *MenteeRoadmap `json:"roadmap"`
	JoinedAt   string         `json:"joinedAt"`
}

// Matched reports whether the mentee has been assigned a mentor.
func (m MenteeAccount) Matched() bool { return m.MentorID != "" }
