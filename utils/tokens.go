package utils

import (
	"fmt"
	"time"

	"learnhub/config"

	"github.com/golang-jwt/jwt/v4"
)

// Two separate capability-token domains. Each purpose gets its own derived
// signing key, so a teacher-approval token can never pass as an
// enrollment-approval token even though both come from the same secret.
const (
	PurposeTeacherApproval    = "approve-teacher"
	PurposeEnrollmentApproval = "approve-student"
)

const approvalTokenTTL = time.Hour

type approvalClaims struct {
	Purpose   string `json:"purpose"`
	UserID    uint   `json:"user_id,omitempty"`
	StudentID uint   `json:"student_id,omitempty"`
	CourseID  uint   `json:"course_id,omitempty"`
	jwt.RegisteredClaims
}

func signingKey(purpose string) []byte {
	return []byte(config.AppConfig.JWTKey + ":" + purpose)
}

// GenerateTeacherApprovalToken issues the short-lived credential embedded in
// the admin notification link for a newly registered teacher.
func GenerateTeacherApprovalToken(userID uint) (string, error) {
	claims := approvalClaims{
		Purpose: PurposeTeacherApproval,
		UserID:  userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(approvalTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey(PurposeTeacherApproval))
}

// VerifyTeacherApprovalToken returns the teacher's user id, or an error when
// the token is tampered, expired or issued for another purpose.
func VerifyTeacherApprovalToken(tokenString string) (uint, error) {
	claims, err := parseApprovalToken(tokenString, PurposeTeacherApproval)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// GenerateEnrollmentApprovalToken issues the credential embedded in the
// approval link mailed to a course owner after a subscribe request.
func GenerateEnrollmentApprovalToken(studentID, courseID uint) (string, error) {
	claims := approvalClaims{
		Purpose:   PurposeEnrollmentApproval,
		StudentID: studentID,
		CourseID:  courseID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(approvalTokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey(PurposeEnrollmentApproval))
}

// VerifyEnrollmentApprovalToken returns the (student, course) pair the token
// authorizes.
func VerifyEnrollmentApprovalToken(tokenString string) (uint, uint, error) {
	claims, err := parseApprovalToken(tokenString, PurposeEnrollmentApproval)
	if err != nil {
		return 0, 0, err
	}
	return claims.StudentID, claims.CourseID, nil
}

func parseApprovalToken(tokenString, purpose string) (*approvalClaims, error) {
	claims := &approvalClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return signingKey(purpose), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired approval token")
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("approval token purpose mismatch")
	}
	return claims, nil
}
