package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func twoLegPayment(sitePaid, busPaid bool) Payment {
	site := PaymentLeg{IsPaid: sitePaid}
	bus := PaymentLeg{IsPaid: busPaid}
	p := Payment{
		Amount:  120,
		Status:  PaymentPending,
		SiteLeg: &site,
		BusLeg:  &bus,
	}
	p.ApplyStatusInvariant()
	return p
}

func TestDeriveOverallStatus(t *testing.T) {
	require.Equal(t, PaymentPending, DeriveOverallStatus(twoLegPayment(false, false)))
	require.Equal(t, PaymentPending, DeriveOverallStatus(twoLegPayment(true, false)))
	require.Equal(t, PaymentPending, DeriveOverallStatus(twoLegPayment(false, true)))
	require.Equal(t, PaymentPaid, DeriveOverallStatus(twoLegPayment(true, true)))
}

func TestDeriveOverallStatusExemptOverrides(t *testing.T) {
	p := twoLegPayment(true, true)
	p.Status = PaymentExempt
	require.Equal(t, PaymentExempt, DeriveOverallStatus(p))
}

func TestStatusInvariantHolds(t *testing.T) {
	// For any payment with both legs present, status is PAID iff both legs
	// are paid, regardless of what the stored status claimed
	for _, sitePaid := range []bool{false, true} {
		for _, busPaid := range []bool{false, true} {
			p := twoLegPayment(sitePaid, busPaid)
			p.Status = PaymentPaid // simulate drifted stored state
			p.ApplyStatusInvariant()

			want := PaymentPending
			if sitePaid && busPaid {
				want = PaymentPaid
			}
			require.Equal(t, want, p.Status, "site=%v bus=%v", sitePaid, busPaid)
		}
	}
}

func TestToggleExemptionEnter(t *testing.T) {
	now := time.Now()
	method := PaymentPixAccount
	receipt := "https://example.com/receipt.png"

	p := twoLegPayment(true, true)
	p.Date = &now
	p.Type = &method
	p.ReceiptURL = &receipt

	exempt := ToggleExemption(p, 120)

	require.Equal(t, PaymentExempt, exempt.Status)
	require.Zero(t, exempt.Amount)
	require.Nil(t, exempt.Date)
	require.Nil(t, exempt.Type)
	require.Nil(t, exempt.ReceiptURL)
	require.NotNil(t, exempt.SiteLeg)
	require.False(t, exempt.SiteLeg.IsPaid)
	require.NotNil(t, exempt.BusLeg)
	require.False(t, exempt.BusLeg.IsPaid)
}

func TestToggleExemptionLeave(t *testing.T) {
	p := twoLegPayment(false, false)
	exempt := ToggleExemption(p, 120)
	restored := ToggleExemption(exempt, 120)

	require.Equal(t, PaymentPending, restored.Status)
	require.Equal(t, float64(120), restored.Amount)
}

func TestInvariantAfterToggleAndClearInAnyOrder(t *testing.T) {
	p := twoLegPayment(true, true)

	cleared := p
	leg := ClearLeg()
	cleared.SiteLeg = &leg
	cleared.ApplyStatusInvariant()
	require.Equal(t, PaymentPending, cleared.Status)

	toggled := ToggleExemption(cleared, 120)
	toggled.ApplyStatusInvariant()
	require.Equal(t, PaymentExempt, toggled.Status)

	back := ToggleExemption(toggled, 120)
	back.ApplyStatusInvariant()
	require.Equal(t, PaymentPending, back.Status)
}

func TestClearLeg(t *testing.T) {
	leg := ClearLeg()
	require.False(t, leg.IsPaid)
	require.Nil(t, leg.Date)
	require.Nil(t, leg.Type)
	require.Nil(t, leg.ReceiptURL)
}
