package services

import (
	"testing"

	"surfschool_backend/models"
)

func TestCanTransitionPayment(t *testing.T) {
	allowed := map[[2]string]bool{
		{models.PaymentUnpaid, models.PaymentPending}: true,
		{models.PaymentUnpaid, models.PaymentPaid}:    true,
		{models.PaymentPending, models.PaymentPaid}:   true,
		{models.PaymentPending, models.PaymentUnpaid}: true,
		{models.PaymentPaid, models.PaymentRefunded}:  true,
		{models.PaymentPaid, models.PaymentUnpaid}:    true,
		{models.PaymentPaid, models.PaymentPending}:   true,
	}

	statuses := []string{models.PaymentUnpaid, models.PaymentPending, models.PaymentPaid, models.PaymentRefunded}
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]string{from, to}]
			if got := CanTransitionPayment(from, to); got != want {
				t.Errorf("CanTransitionPayment(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestRefundedIsTerminal(t *testing.T) {
	for _, to := range []string{models.PaymentUnpaid, models.PaymentPending, models.PaymentPaid} {
		if CanTransitionPayment(models.PaymentRefunded, to) {
			t.Errorf("REFUNDED must not transition to %s", to)
		}
	}
}

func TestRefundedOnlyFromPaid(t *testing.T) {
	for _, from := range []string{models.PaymentUnpaid, models.PaymentPending} {
		if CanTransitionPayment(from, models.PaymentRefunded) {
			t.Errorf("%s must not transition to REFUNDED", from)
		}
	}
}

func TestPaymentSideEffects(t *testing.T) {
	cases := []struct {
		from, to          string
		reservationStatus string
		setPaidAt         bool
		clearPaidAt       bool
	}{
		{models.PaymentUnpaid, models.PaymentPaid, models.ReservationPaid, true, false},
		{models.PaymentPending, models.PaymentPaid, models.ReservationPaid, true, false},
		{models.PaymentPaid, models.PaymentRefunded, models.ReservationCanceled, false, false},
		{models.PaymentPaid, models.PaymentUnpaid, models.ReservationConfirmed, false, true},
		{models.PaymentPaid, models.PaymentPending, models.ReservationConfirmed, false, true},
		{models.PaymentUnpaid, models.PaymentPending, "", false, false},
		{models.PaymentPending, models.PaymentUnpaid, "", false, false},
	}

	for _, tc := range cases {
		status, setPaidAt, clearPaidAt := paymentSideEffects(tc.from, tc.to)
		if status != tc.reservationStatus || setPaidAt != tc.setPaidAt || clearPaidAt != tc.clearPaidAt {
			t.Errorf("paymentSideEffects(%s, %s) = (%q, %v, %v), want (%q, %v, %v)",
				tc.from, tc.to, status, setPaidAt, clearPaidAt,
				tc.reservationStatus, tc.setPaidAt, tc.clearPaidAt)
		}
	}
}
