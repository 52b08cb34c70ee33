// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package tosca

import "fmt"

//go:generate mockgen -source interpreter.go -destination interpreter_mock.go -package tosca

// Interpreter executes EVM byte-code of a single call frame. Nested calls
// issued by the code are the interpreter's own business; the processor only
// starts the outermost frame. Instances are obtained by name through
// GetInterpreter and must be safe for concurrent runs.
type Interpreter interface {
	// Run executes the code in the given parameters. A nil error means the
	// code was processed, even if the execution itself failed (revert, out of
	// gas, invalid instruction); such failures are signalled through
	// Result.Success. A non-nil error reports a problem of the interpreter,
	// in which case the result is undefined. Revisions beyond the newest one
	// known to the interpreter produce an ErrUnsupportedRevision.
	Run(Parameters) (Result, error)
}

// Parameters summarizes the inputs of a call frame.
type Parameters struct {
	BlockParameters
	TransactionParameters
	Context   TransactionContext
	Kind      CallKind
	Static    bool
	Depth     int
	Gas       Gas
	Recipient Address
	Sender    Address
	Input     Data
	Value     Value
	CodeHash  *Hash
	Code      Code
}

// BlockParameters describes the block a transaction is executed in.
type BlockParameters struct {
	ChainID     Word
	BlockNumber int64
	Timestamp   int64
	Coinbase    Address
	GasLimit    Gas
	PrevRandao  Hash
	BaseFee     Value
	BlobBaseFee Value
	Revision    Revision
}

// TransactionParameters describes the transaction a call frame belongs to.
type TransactionParameters struct {
	Origin     Address
	GasPrice   Value
	BlobHashes []Hash
}

// TransactionContext gives access to the world state of an ongoing
// transaction together with the bookkeeping that only lives as long as the
// transaction: snapshots, transient storage, access lists, logs and the
// self-destruct set.
type TransactionContext interface {
	WorldState

	CreateSnapshot() Snapshot
	RestoreSnapshot(Snapshot)

	GetTransientStorage(Address, Key) Word
	SetTransientStorage(Address, Key, Word)

	AccessAccount(Address) AccessStatus
	AccessStorage(Address, Key) AccessStatus

	EmitLog(Log)
	GetLogs() []Log

	// GetBlockHash returns the hash of the block with the given number, or
	// the zero hash if the block is not known.
	GetBlockHash(number int64) Hash

	// GetCommittedStorage returns the value a slot had at the beginning of
	// the transaction.
	GetCommittedStorage(addr Address, key Key) Word
	IsAddressInAccessList(addr Address) bool
	IsSlotInAccessList(addr Address, key Key) (addressPresent, slotPresent bool)
	HasSelfDestructed(addr Address) bool
}

// AccessStatus distinguishes cold and warm account or slot accesses.
type AccessStatus bool

const (
	ColdAccess AccessStatus = false
	WarmAccess AccessStatus = true
)

// Result summarizes the outcome of a call frame.
type Result struct {
	Success   bool // false if the execution ended in a revert or failure
	Output    Data
	GasLeft   Gas
	GasRefund Gas
}

// Data represents the input or output of contract invocations.
type Data []byte

// Gas is the unit execution costs are measured in.
type Gas int64

// Snapshot identifies a point in the history of a transaction context that
// can be restored.
type Snapshot int

// Log is a log message emitted as a side effect of a contract execution.
type Log struct {
	Address Address
	Topics  []Hash
	Data    Data
}

// CallKind distinguishes the ways a call frame can be entered.
type CallKind int

const (
	Call CallKind = iota
	DelegateCall
	StaticCall
	CallCode
)

// Revision enumerates EVM hard-forks.
type Revision int

const (
	R07_Istanbul Revision = iota
	R09_Berlin
	R10_London
	R11_Paris
	R12_Shanghai
	R13_Cancun
	numRevisions int = iota
)

// R99_UnknownNextRevision is a revision no interpreter supports, useful to
// test the handling of unsupported revisions.
const R99_UnknownNextRevision = Revision(99)

// NewestSupportedRevision is the default revision transactions run with.
const NewestSupportedRevision = R13_Cancun

// ErrUnsupportedRevision is returned by interpreters for revisions they do
// not know.
type ErrUnsupportedRevision struct {
	Revision Revision
}

func (e *ErrUnsupportedRevision) Error() string {
	return fmt.Sprintf("unsupported revision %d", e.Revision)
}
