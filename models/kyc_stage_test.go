package models

import (
	"testing"
	"time"
)

func TestSnapshotStagePrecedence(t *testing.T) {
	cases := []struct {
		name string
		snap KYCSnapshot
		want KYCStage
	}{
		{"nothing submitted", KYCSnapshot{}, KYCStageDocument},
		{"document submitted but not reviewed", KYCSnapshot{Document: DocumentSubmitted}, KYCStageDocument},
		{"document rejected", KYCSnapshot{Document: DocumentRejected}, KYCStageDocument},
		{"document approved", KYCSnapshot{Document: DocumentApproved}, KYCStageVideo},
		{"video uploaded", KYCSnapshot{Document: DocumentApproved, Video: VideoUploaded}, KYCStagePhone},
		{"phone code sent but unverified", KYCSnapshot{Document: DocumentApproved, Video: VideoUploaded, Phone: PhoneCodeSent}, KYCStagePhone},
		{"phone verified", KYCSnapshot{Document: DocumentApproved, Video: VideoUploaded, Phone: PhoneVerified}, KYCStageReview},
		// Most advanced evidence wins even if an earlier step regressed, e.g. a
		// rejected resubmission after the video was already accepted.
		{"video without approved document", KYCSnapshot{Document: DocumentRejected, Video: VideoUploaded}, KYCStagePhone},
		{"phone verified without video", KYCSnapshot{Phone: PhoneVerified}, KYCStageReview},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.snap.Stage(); got != tc.want {
				t.Fatalf("Stage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSnapshotKYCNewestDoesNotEraseApproval(t *testing.T) {
	docs := []KYCDocument{
		{Status: KYCStatusPending},  // newest resubmission
		{Status: KYCStatusApproved}, // earlier approval
	}
	snap := SnapshotKYC(docs, nil)
	if snap.Document != DocumentApproved {
		t.Fatalf("document state = %d, want DocumentApproved", snap.Document)
	}
}

func TestSnapshotKYCRejectedOverSubmitted(t *testing.T) {
	docs := []KYCDocument{
		{Status: KYCStatusRejected},
		{Status: KYCStatusPending},
	}
	snap := SnapshotKYC(docs, nil)
	if snap.Document != DocumentRejected {
		t.Fatalf("document state = %d, want DocumentRejected", snap.Document)
	}
}

func TestResolveKYCStageTerminalStatusesWin(t *testing.T) {
	now := time.Now()
	docs := []KYCDocument{{Status: KYCStatusApproved}}
	verification := &KYCVerification{VideoURL: "https://cdn.example/v.mp4", PhoneCodeVerifiedAt: &now}

	if got := ResolveKYCStage(KYCStatusApproved, docs, verification); got != KYCStageApproved {
		t.Fatalf("approved profile: stage = %q, want %q", got, KYCStageApproved)
	}
	if got := ResolveKYCStage(KYCStatusRejected, docs, verification); got != KYCStageRejected {
		t.Fatalf("rejected profile: stage = %q, want %q", got, KYCStageRejected)
	}
	if got := ResolveKYCStage(KYCStatusPending, docs, verification); got != KYCStageReview {
		t.Fatalf("pending profile: stage = %q, want %q", got, KYCStageReview)
	}
}

// The derivation is pure: calling it twice over the same rows yields the same
// stage, which is what lets a second device resume correctly.
func TestResolveKYCStageIsPure(t *testing.T) {
	now := time.Now()
	docs := []KYCDocument{{Status: KYCStatusApproved}, {Status: KYCStatusRejected}}
	verification := &KYCVerification{VideoURL: "https://cdn.example/v.mp4", PhoneCodeSentAt: &now}

	first := ResolveKYCStage(KYCStatusPending, docs, verification)
	second := ResolveKYCStage(KYCStatusPending, docs, verification)
	if first != second {
		t.Fatalf("stage changed between calls: %q then %q", first, second)
	}
	if first != KYCStagePhone {
		t.Fatalf("stage = %q, want %q", first, KYCStagePhone)
	}
}

func TestCanHost(t *testing.T) {
	if CanHost(User{KYCStatus: KYCStatusPending}) {
		t.Fatal("pending user should not be able to host")
	}
	if CanHost(User{KYCStatus: KYCStatusRejected}) {
		t.Fatal("rejected user should not be able to host")
	}
	if !CanHost(User{KYCStatus: KYCStatusApproved}) {
		t.Fatal("approved user should be able to host")
	}
}
