package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/placementcell/placement-service/internal/domain"
	apperrors "github.com/placementcell/placement-service/pkg/errors"
	"gorm.io/gorm"
)

// In-memory repository fakes. They mimic the gorm-backed repositories
// closely enough for service semantics: list methods return value
// copies, Save writes back by ID, and the application fake enforces the
// (job, student) unique pair.

type fakeStudentRepo struct {
	students map[uint]*domain.Student
	nextID   uint
}

func newFakeStudentRepo() *fakeStudentRepo {
	return &fakeStudentRepo{students: map[uint]*domain.Student{}, nextID: 1}
}

func (f *fakeStudentRepo) Create(student *domain.Student) error {
	if student.ID == 0 {
		student.ID = f.nextID
		f.nextID++
	}
	cp := *student
	f.students[student.ID] = &cp
	return nil
}

func (f *fakeStudentRepo) FindByID(id uint) (*domain.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeStudentRepo) FindByUserID(userID uint) (*domain.Student, error) {
	for _, s := range f.students {
		if s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeStudentRepo) FindByUserEmails(emails []string) ([]domain.Student, error) {
	var out []domain.Student
	for _, s := range f.students {
		for _, e := range emails {
			if strings.EqualFold(s.User.Email, e) {
				out = append(out, *s)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) FindByIDs(ids []uint) ([]domain.Student, error) {
	var out []domain.Student
	for _, id := range ids {
		if s, ok := f.students[id]; ok {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeStudentRepo) ListAll() ([]domain.Student, error) {
	var out []domain.Student
	for _, s := range f.students {
		out = append(out, *s)
	}
	return out, nil
}

func (f *fakeStudentRepo) Save(student *domain.Student) error {
	cp := *student
	f.students[student.ID] = &cp
	return nil
}

func (f *fakeStudentRepo) UpdateFields(studentID uint, fields map[string]any) error {
	s, ok := f.students[studentID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	for column, value := range fields {
		switch column {
		case "cgpa":
			s.CGPA = value.(float64)
		case "tenth_percent":
			s.TenthPercent = value.(float64)
		case "twelfth_percent":
			s.TwelfthPercent = value.(float64)
		case "semester":
			s.Semester = value.(int)
		case "backlogs":
			s.Backlogs = value.(int)
		case "branch":
			s.Branch = value.(string)
		case "resume_link":
			s.ResumeLink = value.(string)
		case "tenth_marksheet":
			s.TenthMarksheet = value.(string)
		case "twelfth_marksheet":
			s.TwelfthMarksheet = value.(string)
		}
	}
	return nil
}

func (f *fakeStudentRepo) DeleteByIDs(ids []uint) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, ok := f.students[id]; ok {
			delete(f.students, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeJobRepo struct {
	jobs   map[uint]*domain.Job
	nextID uint
}

func newFakeJobRepo() *fakeJobRepo {
	return &fakeJobRepo{jobs: map[uint]*domain.Job{}, nextID: 1}
}

func (f *fakeJobRepo) Create(job *domain.Job) error {
	if job.ID == 0 {
		job.ID = f.nextID
		f.nextID++
	}
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeJobRepo) FindByID(id uint) (*domain.Job, error) {
	j, ok := f.jobs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *j
	return &cp, nil
}

func (f *fakeJobRepo) ListAll() ([]domain.Job, error) {
	var out []domain.Job
	for _, j := range f.jobs {
		out = append(out, *j)
	}
	return out, nil
}

func (f *fakeJobRepo) Update(job *domain.Job) error {
	cp := *job
	f.jobs[job.ID] = &cp
	return nil
}

func (f *fakeJobRepo) Delete(id uint) error {
	delete(f.jobs, id)
	return nil
}

func (f *fakeJobRepo) UpdateStatus(id uint, status string) error {
	j, ok := f.jobs[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	j.Status = status
	return nil
}

func (f *fakeJobRepo) DeactivateExpired(now time.Time) (int64, error) {
	var flipped int64
	for _, j := range f.jobs {
		if j.Status == domain.JobActive && j.Deadline.Before(now) {
			j.Status = domain.JobInactive
			flipped++
		}
	}
	return flipped, nil
}

type fakeApplicationRepo struct {
	apps   map[uint]*domain.Application
	nextID uint
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: map[uint]*domain.Application{}, nextID: 1}
}

func (f *fakeApplicationRepo) Create(app *domain.Application) error {
	for _, a := range f.apps {
		if a.JobID == app.JobID && a.StudentID == app.StudentID {
			return apperrors.ErrDuplicateApplication
		}
	}
	if app.ID == 0 {
		app.ID = f.nextID
		f.nextID++
	}
	cp := *app
	cp.RoundStatus = copyRoundStatus(app.RoundStatus)
	f.apps[app.ID] = &cp
	return nil
}

func (f *fakeApplicationRepo) FindByJobAndStudent(jobID, studentID uint) (*domain.Application, error) {
	for _, a := range f.apps {
		if a.JobID == jobID && a.StudentID == studentID {
			cp := *a
			cp.RoundStatus = copyRoundStatus(a.RoundStatus)
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeApplicationRepo) ListByJob(jobID uint) ([]domain.Application, error) {
	var out []domain.Application
	for _, a := range f.apps {
		if a.JobID == jobID {
			cp := *a
			cp.RoundStatus = copyRoundStatus(a.RoundStatus)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) ListByStudent(studentID uint) ([]domain.Application, error) {
	var out []domain.Application
	for _, a := range f.apps {
		if a.StudentID == studentID {
			cp := *a
			cp.RoundStatus = copyRoundStatus(a.RoundStatus)
			out = append(out, cp)
		}
	}
	return out, nil
}

func (f *fakeApplicationRepo) Save(app *domain.Application) error {
	cp := *app
	cp.RoundStatus = copyRoundStatus(app.RoundStatus)
	f.apps[app.ID] = &cp
	return nil
}

func copyRoundStatus(m domain.RoundStatusMap) domain.RoundStatusMap {
	if m == nil {
		return nil
	}
	cp := make(domain.RoundStatusMap, len(m))
	for k, v := range m {
		cp[k] = v
	}
	return cp
}

type fakeRoundRepo struct {
	rounds map[string]*domain.JobRound
	nextID uint
}

func newFakeRoundRepo() *fakeRoundRepo {
	return &fakeRoundRepo{rounds: map[string]*domain.JobRound{}, nextID: 1}
}

func roundKey(jobID uint, roundType string) string {
	return fmt.Sprintf("%d:%s", jobID, roundType)
}

func (f *fakeRoundRepo) UpsertRoster(round *domain.JobRound) error {
	round.MailSent = false
	key := roundKey(round.JobID, round.RoundType)
	if existing, ok := f.rounds[key]; ok {
		round.ID = existing.ID
	} else {
		round.ID = f.nextID
		f.nextID++
	}
	cp := *round
	f.rounds[key] = &cp
	return nil
}

func (f *fakeRoundRepo) FindByJobAndRound(jobID uint, roundType string) (*domain.JobRound, error) {
	r, ok := f.rounds[roundKey(jobID, roundType)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRoundRepo) ListByJob(jobID uint) ([]domain.JobRound, error) {
	var out []domain.JobRound
	for _, r := range f.rounds {
		if r.JobID == jobID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRoundRepo) MarkMailSent(id uint) error {
	for _, r := range f.rounds {
		if r.ID == id {
			r.MailSent = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeTokenRepo struct {
	tokens map[string]*domain.JobToken
	nextID uint
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[string]*domain.JobToken{}, nextID: 1}
}

func (f *fakeTokenRepo) Create(token *domain.JobToken) error {
	if token.ID == 0 {
		token.ID = f.nextID
		f.nextID++
	}
	cp := *token
	f.tokens[token.Token] = &cp
	return nil
}

func (f *fakeTokenRepo) FindByToken(token string) (*domain.JobToken, error) {
	t, ok := f.tokens[token]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTokenRepo) DeleteExpired(before time.Time) (int64, error) {
	var deleted int64
	for key, t := range f.tokens {
		if t.ExpiresAt.Before(before) {
			delete(f.tokens, key)
			deleted++
		}
	}
	return deleted, nil
}

type fakeAuthRequestRepo struct {
	requests map[uint]*domain.AuthRequest
	nextID   uint
}

func newFakeAuthRequestRepo() *fakeAuthRequestRepo {
	return &fakeAuthRequestRepo{requests: map[uint]*domain.AuthRequest{}, nextID: 1}
}

func (f *fakeAuthRequestRepo) Create(req *domain.AuthRequest) error {
	if req.ID == 0 {
		req.ID = f.nextID
		f.nextID++
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now()
	}
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakeAuthRequestRepo) FindByID(id uint) (*domain.AuthRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeAuthRequestRepo) ListAll() ([]domain.AuthRequest, error) {
	var out []domain.AuthRequest
	for _, r := range f.requests {
		out = append(out, *r)
	}
	return out, nil
}

func (f *fakeAuthRequestRepo) Save(req *domain.AuthRequest) error {
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakeAuthRequestRepo) Delete(id uint) error {
	delete(f.requests, id)
	return nil
}

func (f *fakeAuthRequestRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	var deleted int64
	for id, r := range f.requests {
		if r.CreatedAt.Before(cutoff) {
			delete(f.requests, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeCourseRepo struct {
	courses map[uint]*domain.Course
	nextID  uint
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[uint]*domain.Course{}, nextID: 1}
}

func (f *fakeCourseRepo) Create(course *domain.Course) error {
	if course.ID == 0 {
		course.ID = f.nextID
		f.nextID++
	}
	cp := *course
	f.courses[course.ID] = &cp
	return nil
}

func (f *fakeCourseRepo) FindByName(name string) (*domain.Course, error) {
	for _, c := range f.courses {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCourseRepo) FindByID(id uint) (*domain.Course, error) {
	c, ok := f.courses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourseRepo) ListAll() ([]domain.Course, error) {
	var out []domain.Course
	for _, c := range f.courses {
		out = append(out, *c)
	}
	return out, nil
}

type fakeUserRepo struct {
	users  map[uint]*domain.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*domain.User{}, nextID: 1}
}

func (f *fakeUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	if f.users == nil {
		f.users = map[uint]*domain.User{}
		f.nextID = 1
	}
	if user.ID == 0 {
		user.ID = f.nextID
		f.nextID++
	}
	cp := *user
	f.users[user.ID] = &cp
	return user, nil
}

func (f *fakeUserRepo) FindUserByEmail(email string) (*domain.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindUserByID(userID uint) (*domain.User, error) {
	u, ok := f.users[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) SaveUser(user *domain.User) error {
	if f.users == nil {
		f.users = map[uint]*domain.User{}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

type publishedEvent struct {
	key   string
	value []byte
}

// fakeProducer records published events; set fail to simulate a broker
// outage.
type fakeProducer struct {
	events []publishedEvent
	fail   bool
}

func (f *fakeProducer) PublishMessage(key, value []byte) error {
	if f.fail {
		return errPublishFailed
	}
	f.events = append(f.events, publishedEvent{key: string(key), value: value})
	return nil
}

func (f *fakeProducer) countByKey(key string) int {
	n := 0
	for _, e := range f.events {
		if e.key == key {
			n++
		}
	}
	return n
}

var errPublishFailed = errors.New("broker unavailable")
