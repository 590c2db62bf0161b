package models

const (
	KYCStatusPending  = "pending"
	KYCStatusApproved = "approved"
	KYCStatusRejected = "rejected"
)

// KYCStage is the onboarding step the submitter should see next.
type KYCStage string

const (
	KYCStageDocument KYCStage = "document"
	KYCStageVideo    KYCStage = "video"
	KYCStagePhone    KYCStage = "phone"
	KYCStageReview   KYCStage = "review"
	KYCStageApproved KYCStage = "approved"
	KYCStageRejected KYCStage = "rejected"
)

// Sub-statuses the stage derivation is defined over. Collapsing the persisted
// rows into these first keeps the state machine exhaustive instead of
// scattering row checks through handlers.

type DocumentState int

const (
	DocumentNone DocumentState = iota
	DocumentSubmitted
	DocumentRejected
	DocumentApproved
)

type VideoState int

const (
	VideoNone VideoState = iota
	VideoUploaded
)

type PhoneState int

const (
	PhoneNone PhoneState = iota
	PhoneCodeSent
	PhoneVerified
)

// KYCSnapshot is the condensed view of a user's persisted KYC rows.
type KYCSnapshot struct {
	Document DocumentState
	Video    VideoState
	Phone    PhoneState
}

// SnapshotKYC condenses document rows and the optional verification row into
// sub-statuses. An approved document wins over newer pending or rejected
// resubmissions.
func SnapshotKYC(docs []KYCDocument, verification *KYCVerification) KYCSnapshot {
	var snap KYCSnapshot

	for _, doc := range docs {
		switch doc.Status {
		case KYCStatusApproved:
			snap.Document = DocumentApproved
		case KYCStatusRejected:
			if snap.Document < DocumentRejected {
				snap.Document = DocumentRejected
			}
		default:
			if snap.Document < DocumentSubmitted {
				snap.Document = DocumentSubmitted
			}
		}
	}

	if verification != nil {
		if verification.VideoURL != "" {
			snap.Video = VideoUploaded
		}
		if verification.PhoneCodeVerifiedAt != nil {
			snap.Phone = PhoneVerified
		} else if verification.PhoneCodeSentAt != nil {
			snap.Phone = PhoneCodeSent
		}
	}

	return snap
}

// Stage resolves the active onboarding stage, most advanced wins. Note the
// document gate: the video stage opens only once a document has been approved
// by an admin, not merely submitted.
func (s KYCSnapshot) Stage() KYCStage {
	switch {
	case s.Phone == PhoneVerified:
		return KYCStageReview
	case s.Video == VideoUploaded:
		return KYCStagePhone
	case s.Document == DocumentApproved:
		return KYCStageVideo
	default:
		return KYCStageDocument
	}
}

// ResolveKYCStage derives the stage to display from stored state alone. It is
// pure: the same profile status and rows always yield the same stage, so a
// reload or a second device resumes at the right step without any client-held
// progress marker.
func ResolveKYCStage(kycStatus string, docs []KYCDocument, verification *KYCVerification) KYCStage {
	switch kycStatus {
	case KYCStatusApproved:
		return KYCStageApproved
	case KYCStatusRejected:
		return KYCStageRejected
	}
	return SnapshotKYC(docs, verification).Stage()
}

// CanHost reports whether the user has cleared KYC and may create listings.
func CanHost(user User) bool {
	return user.KYCStatus == KYCStatusApproved
}
