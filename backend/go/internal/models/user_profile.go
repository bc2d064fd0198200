package models

// ProfileRole 定义了用户在平台中的角色
type ProfileRole string

const (
	RoleFounder    ProfileRole = "founder"
	RoleConsultant ProfileRole = "consultant"
	RoleAdmin      ProfileRole = "admin"
)

// UserProfile 是用户在文档库中的公开档案。UID 来自认证服务，
// 与文档自身的 ID 相互独立。
type UserProfile struct {
	BaseDocument `bson:",inline"`

	UID         string      `bson:"uid" json:"uid"`
	Email       string      `bson:"email" json:"email"`
	DisplayName string      `bson:"displayName" json:"displayName"`
	Role        ProfileRole `bson:"role" json:"role"`
	Bio         string      `bson:"bio,omitempty" json:"bio,omitempty"`
	Expertise   []string    `bson:"expertise,omitempty" json:"expertise,omitempty"`
	Experience  string      `bson:"experience,omitempty" json:"experience,omitempty"`
	LinkedIn    string      `bson:"linkedIn,omitempty" json:"linkedIn,omitempty"`
}
