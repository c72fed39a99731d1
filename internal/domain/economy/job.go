package economy

// Job is a closed set of variants; switch on the concrete type.
type Job interface {
	Kind() JobKind
	isJob()
}

type JobKind string

const (
	JobUnemployed JobKind = "unemployed"
	JobEmployee   JobKind = "employee"
	JobOwner      JobKind = "business_owner"
	JobRetired    JobKind = "retired"
)

type Unemployed struct{}

type Employee struct {
	Business BusinessID
}

type BusinessOwner struct {
	Business BusinessID
}

type Retired struct{}

func (Unemployed) Kind() JobKind    { return JobUnemployed }
func (Employee) Kind() JobKind      { return JobEmployee }
func (BusinessOwner) Kind() JobKind { return JobOwner }
func (Retired) Kind() JobKind       { return JobRetired }

func (Unemployed) isJob()    {}
func (Employee) isJob()      {}
func (BusinessOwner) isJob() {}
func (Retired) isJob()       {}

// employerOf returns the business a job draws from, if any.
func employerOf(j Job) (BusinessID, bool) {
	switch v := j.(type) {
	case Employee:
		return v.Business, true
	case BusinessOwner:
		return v.Business, true
	default:
		return BusinessID{}, false
	}
}
