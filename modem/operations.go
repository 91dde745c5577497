package modem

import (
	"fmt"

	"i4.energy/across/modemmgr/at"
)

// SetEcho turns command echo on or off.
func (m *Modem) SetEcho(on bool) (Result[struct{}], error) {
	cmd := at.CmdEchoOff
	if on {
		cmd = at.CmdEchoOn
	}
	return transact(m, "set echo", cmd, m.dialect.Timings.Echo, expectFirstOK)
}

// Manufacturer reads the manufacturer identification.
func (m *Modem) Manufacturer() (Result[string], error) {
	return transact(m, "get manufacturer", at.CmdManufacturer, m.dialect.Timings.Identity, parseValue)
}

// Model reads the model identification.
func (m *Modem) Model() (Result[string], error) {
	return transact(m, "get model", at.CmdModel, m.dialect.Timings.Identity, parseValue)
}

// Revision reads the firmware revision.
func (m *Modem) Revision() (Result[string], error) {
	return transact(m, "get revision", at.CmdRevision, m.dialect.Timings.Identity, parseValue)
}

// SerialNumber reads the product serial number.
func (m *Modem) SerialNumber() (Result[string], error) {
	return transact(m, "get serial number", at.CmdSerialNumber, m.dialect.Timings.Identity, parseValue)
}

// IMEI reads the equipment identity. Modems answer AT+GSN with the IMEI.
func (m *Modem) IMEI() (Result[string], error) {
	return transact(m, "get IMEI", at.CmdSerialNumber, m.dialect.Timings.Identity, parseValue)
}

// IMSI reads the subscriber identity of the SIM.
func (m *Modem) IMSI() (Result[string], error) {
	return transact(m, "get IMSI", at.CmdIMSI, m.dialect.Timings.Identity, parseValue)
}

// SetOperator selects the network manually by numeric PLMN, e.g. "21401".
// An empty response means the operator was already selected.
func (m *Modem) SetOperator(plmn string) (Result[struct{}], error) {
	cmd := fmt.Sprintf(at.CmdSetOperator, plmn)
	return transact(m, "set operator", cmd, m.dialect.Timings.SetOperator, expectFirstOKOrNothing)
}

// Operator returns the operator field of AT+COPS?, in whatever format the
// modem is set to report.
func (m *Modem) Operator() (Result[string], error) {
	return transact(m, "get operator", at.CmdOperator, m.dialect.Timings.GetOperator, parseOperator)
}

// Register sets the network registration report mode: 1 enables reports, 2
// adds LAC and cell id. Registered modems may answer with nothing at all.
func (m *Modem) Register(n int) (Result[string], error) {
	cmd := fmt.Sprintf(at.CmdRegister, n)
	if m.closed {
		return Result[string]{Command: cmd}, ErrAlreadyClosed
	}
	if n < 0 || n > 2 {
		return Result[string]{Command: cmd}, fmt.Errorf("%w: registration mode %d", ErrInvalidArgument, n)
	}
	return transact(m, "register", cmd, m.dialect.Timings.Register, parseRegister)
}

// ActivatePDPContext attaches to the packet domain and then activates
// context 1, each step taking half of the dialect's interval. On failure
// the Result names the step that failed.
func (m *Modem) ActivatePDPContext() (Result[struct{}], error) {
	half := m.dialect.Timings.ActivatePDP / 2

	res, err := transact(m, "attach packet domain", at.CmdAttach, half, expectFirstOK)
	if err != nil || !res.OK {
		return res, err
	}
	return transact(m, "activate PDP context", at.CmdActivate, half, expectFirstOK)
}

// DeactivatePDPContext detaches from the packet domain.
func (m *Modem) DeactivatePDPContext() (Result[struct{}], error) {
	return transact(m, "deactivate PDP context", at.CmdDetach, m.dialect.Timings.DeactivatePDP, expectFirstOK)
}

// PDPContext reports whether the modem is attached to the packet domain.
func (m *Modem) PDPContext() (Result[PDPContext], error) {
	return transact(m, "get PDP context", at.CmdAttachStatus, m.dialect.Timings.PDPContext, parsePDPContext)
}

// SignalQuality returns the AT+CSQ reply as "rssi,ber". Pass the rssi part
// to SignalQualityToRSSI for a dBm estimate.
func (m *Modem) SignalQuality() (Result[string], error) {
	return transact(m, "get signal quality", at.CmdSignal, m.dialect.Timings.SignalQuality, parseSignalQuality)
}

// APN returns the defined PDP context lines.
func (m *Modem) APN() (Result[[]string], error) {
	return transact(m, "get APN", at.CmdPDPContexts, m.dialect.Timings.GetAPN, parseAPN)
}

// SetAPN defines PDP context number contextID as an IP context on apn.
func (m *Modem) SetAPN(contextID int, apn string) (Result[string], error) {
	cmd := fmt.Sprintf(at.CmdSetPDPContext, contextID, apn)
	if m.closed {
		return Result[string]{Command: cmd}, ErrAlreadyClosed
	}
	if contextID < 1 {
		return Result[string]{Command: cmd}, fmt.Errorf("%w: PDP context %d", ErrInvalidArgument, contextID)
	}
	return transact(m, "set APN", cmd, m.dialect.Timings.SetAPN, parseSetAPN)
}

// Reset restores the modem's default profile.
func (m *Modem) Reset() (Result[[]string], error) {
	return transact(m, "reset", at.CmdReset, m.dialect.Timings.Reset, parseTrailingOK)
}

// RegistrationInfo queries registration status with the dialect's command.
func (m *Modem) RegistrationInfo() (Result[RegistrationInfo], error) {
	return transact(m, "get registration info", m.dialect.RegistrationCommand, m.dialect.Timings.Registration, parseRegistrationInfo)
}

// ICCID reads the SIM serial number without its F padding.
func (m *Modem) ICCID() (Result[string], error) {
	cmd := m.dialect.ICCIDCommand
	if m.closed {
		return Result[string]{Command: cmd}, ErrAlreadyClosed
	}
	if cmd == "" {
		return Result[string]{}, fmt.Errorf("%w: ICCID on %s", ErrUnsupported, m.dialect)
	}
	return transact(m, "get ICCID", cmd, m.dialect.Timings.ICCID, parseICCID)
}

// AccessTechnology reads the acquisition order and roaming setting.
func (m *Modem) AccessTechnology() (Result[AccessTechnology], error) {
	a := m.dialect.AccessTechnology
	if m.closed {
		return Result[AccessTechnology]{}, ErrAlreadyClosed
	}
	if a == nil {
		return Result[AccessTechnology]{}, fmt.Errorf("%w: access technology on %s", ErrUnsupported, m.dialect)
	}
	return transact(m, "get access technology", a.QueryCommand, m.dialect.Timings.GetAccessTechnology, a.Layout.parse)
}

// SetAccessTechnology selects the acquisition order. act must be one of the
// dialect's AccessTechnology.Values. Dialects anchored on the last line
// return the full response as Value.
func (m *Modem) SetAccessTechnology(act string) (Result[[]string], error) {
	a := m.dialect.AccessTechnology
	if m.closed {
		return Result[[]string]{}, ErrAlreadyClosed
	}
	if a == nil {
		return Result[[]string]{}, fmt.Errorf("%w: access technology on %s", ErrUnsupported, m.dialect)
	}
	if !a.accepts(act) {
		return Result[[]string]{}, fmt.Errorf("%w: access technology %q not in %q", ErrInvalidArgument, act, a.Values)
	}
	return transact(m, "set access technology", a.Command(act), m.dialect.Timings.SetAccessTechnology, a.Success.parse)
}

// StopPeriodicMessages disables unsolicited status reports such as ^RSSI.
func (m *Modem) StopPeriodicMessages() (Result[string], error) {
	cmd := m.dialect.PeriodicMessagesCommand
	if m.closed {
		return Result[string]{Command: cmd}, ErrAlreadyClosed
	}
	if cmd == "" {
		return Result[string]{}, fmt.Errorf("%w: periodic messages on %s", ErrUnsupported, m.dialect)
	}
	return transact(m, "stop periodic messages", cmd, m.dialect.Timings.PeriodicMessages, parseLastLine)
}
