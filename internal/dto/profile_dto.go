package dto

type EducationInput struct {
	Degree        string `json:"degree" binding:"required"`
	Institution   string `json:"institution" binding:"required"`
	YearOfPassing string `json:"year_of_passing" binding:"required"`
	Grade         string `json:"grade"`
}

type EmploymentInput struct {
	CompanyName       string `json:"company_name" binding:"required"`
	Role              string `json:"role" binding:"required"`
	YearsOfExperience string `json:"years_of_experience"`
	CurrentlyWorking  bool   `json:"currently_working"`
}

type FamilyMemberInput struct {
	Name       string `json:"name" binding:"required"`
	Relation   string `json:"relation" binding:"required"`
	Education  string `json:"education"`
	Profession string `json:"profession"`
}

type SkillInput struct {
	SkillName  string `json:"skill_name" binding:"required"`
	EndorsedBy string `json:"endorsed_by"`
}

// UpdateProfileInput replaces the profile and, when the slices are
// present, the full nested detail sets.
type UpdateProfileInput struct {
	DOB           *string `json:"dob"`
	Gender        *string `json:"gender"`
	Village       *string `json:"village"`
	Mandal        *string `json:"mandal"`
	District      *string `json:"district"`
	Pincode       *string `json:"pincode"`
	Caste         *string `json:"caste"`
	Subcaste      *string `json:"subcaste"`
	MaritalStatus *string `json:"marital_status"`
	NativePlace   *string `json:"native_place"`

	Education  *[]EducationInput    `json:"education"`
	Employment *[]EmploymentInput   `json:"employment"`
	Family     *[]FamilyMemberInput `json:"family"`
	Skills     *[]SkillInput        `json:"skills"`
}

type PhotoURLResponse struct {
	URL string `json:"url"`
}
