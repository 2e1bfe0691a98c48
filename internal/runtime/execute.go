package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"

	"github.com/roach88/soltweet/internal/program"
	"github.com/roach88/soltweet/internal/store"
)

// workingAccount is an account as seen during one transaction.
type workingAccount struct {
	info    *program.AccountInfo
	exists  bool // present in the store before this transaction
	created bool // allocated by this transaction
	debited bool // lamports changed by this transaction
}

// execution holds the per-transaction working set.
type execution struct {
	ctx      context.Context
	stx      *store.Tx
	msg      *solana.Message
	slot     int64
	accounts map[solana.PublicKey]*workingAccount
}

// execute runs every instruction of tx inside stx and stages the resulting
// account writes. Any error aborts the whole transaction.
func (r *Runtime) execute(ctx context.Context, stx *store.Tx, tx *solana.Transaction, slot, now int64) error {
	if err := tx.VerifySignatures(); err != nil {
		return &TxError{
			Code:        ErrCodeSignatureFailure,
			Message:     err.Error(),
			Instruction: -1,
			Err:         err,
		}
	}

	ex := &execution{
		ctx:      ctx,
		stx:      stx,
		msg:      &tx.Message,
		slot:     slot,
		accounts: make(map[solana.PublicKey]*workingAccount),
	}
	env := program.Env{Clock: fixedClock(now)}

	for i, ci := range tx.Message.Instructions {
		if err := ex.runInstruction(env, i, ci); err != nil {
			return err
		}
	}

	return ex.flush()
}

func (ex *execution) runInstruction(env program.Env, index int, ci solana.CompiledInstruction) error {
	keys := ex.msg.AccountKeys
	if int(ci.ProgramIDIndex) >= len(keys) {
		return newTxError(ErrCodeInvalidAccountIndex, index, "program index %d out of range", ci.ProgramIDIndex)
	}
	programID := keys[ci.ProgramIDIndex]
	if !programID.Equals(program.ID) {
		return newTxError(ErrCodeUnknownProgram, index, "program %s is not deployed", programID)
	}

	infos := make([]*program.AccountInfo, len(ci.Accounts))
	for j, idx := range ci.Accounts {
		if int(idx) >= len(keys) {
			return newTxError(ErrCodeInvalidAccountIndex, index, "account index %d out of range", idx)
		}
		wa, err := ex.load(int(idx))
		if err != nil {
			return err
		}
		infos[j] = wa.info
	}

	for _, alloc := range program.Allocations(ci.Data) {
		if alloc.Account >= len(infos) || alloc.Payer >= len(infos) {
			// Process reports the missing accounts.
			break
		}
		if err := ex.allocate(index, infos[alloc.Account], infos[alloc.Payer], alloc.Space); err != nil {
			return err
		}
	}

	if err := program.Process(env, infos, ci.Data); err != nil {
		return newProgramError(index, err)
	}
	return nil
}

// load returns the working copy of the account at message index idx,
// reading it from the store on first use.
func (ex *execution) load(idx int) (*workingAccount, error) {
	key := ex.msg.AccountKeys[idx]
	if wa, ok := ex.accounts[key]; ok {
		return wa, nil
	}

	wa := &workingAccount{
		info: &program.AccountInfo{
			Key:        key,
			Owner:      solana.SystemProgramID,
			IsSigner:   isSigner(ex.msg.Header, idx),
			IsWritable: isWritable(ex.msg.Header, idx, len(ex.msg.AccountKeys)),
		},
	}

	acct, err := ex.stx.ReadAccount(ex.ctx, key)
	switch {
	case err == nil:
		wa.exists = true
		wa.info.Owner = acct.Owner
		wa.info.Lamports = acct.Lamports
		wa.info.Data = acct.Data
	case errors.Is(err, store.ErrAccountNotFound):
	default:
		return nil, fmt.Errorf("load account %s: %w", key, err)
	}

	ex.accounts[key] = wa
	return wa, nil
}

// allocate creates a zero-filled, program-owned, rent-exempt account of
// space bytes, funded by payer. Only system-owned wallets without data
// may pay.
func (ex *execution) allocate(index int, acct, payer *program.AccountInfo, space int) error {
	target := ex.accounts[acct.Key]
	if target.exists || target.created {
		return newTxError(ErrCodeAccountInUse, index, "account %s already in use", acct.Key)
	}
	if !acct.IsSigner {
		return newTxError(ErrCodeMissingSigner, index, "new account %s must sign", acct.Key)
	}

	funder := ex.accounts[payer.Key]
	if !funder.exists && !funder.created {
		return newTxError(ErrCodeAccountNotFound, index, "payer %s has no prior credit", payer.Key)
	}
	if !payer.Owner.Equals(solana.SystemProgramID) || len(payer.Data) > 0 {
		return newTxError(ErrCodeInvalidAccountForFee, index,
			"payer %s is owned by %s and cannot fund accounts", payer.Key, payer.Owner)
	}
	rent := MinimumBalance(space)
	if payer.Lamports < rent {
		return newTxError(ErrCodeInsufficientFunds, index,
			"payer %s has %d lamports, needs %d", payer.Key, payer.Lamports, rent)
	}

	payer.Lamports -= rent
	funder.debited = true

	acct.Owner = program.ID
	acct.Lamports = rent
	acct.Data = make([]byte, space)
	target.created = true
	return nil
}

// flush writes staged account changes.
func (ex *execution) flush() error {
	for key, wa := range ex.accounts {
		switch {
		case wa.created:
			err := ex.stx.CreateAccount(ex.ctx, store.Account{
				PubKey:      key,
				Owner:       wa.info.Owner,
				Lamports:    wa.info.Lamports,
				Data:        wa.info.Data,
				CreatedSlot: ex.slot,
			})
			if errors.Is(err, store.ErrAccountExists) {
				return newTxError(ErrCodeAccountInUse, -1, "account %s already in use", key)
			}
			if err != nil {
				return err
			}
		case wa.debited:
			if err := ex.stx.SetLamports(ex.ctx, key, wa.info.Lamports); err != nil {
				return err
			}
		}
	}
	return nil
}

func isSigner(h solana.MessageHeader, idx int) bool {
	return idx < int(h.NumRequiredSignatures)
}

func isWritable(h solana.MessageHeader, idx, numKeys int) bool {
	signers := int(h.NumRequiredSignatures)
	if idx < signers {
		return idx < signers-int(h.NumReadonlySignedAccounts)
	}
	return idx < numKeys-int(h.NumReadonlyUnsignedAccounts)
}

// fixedClock pins the program's clock to the transaction's timestamp.
type fixedClock int64

func (c fixedClock) UnixTimestamp() int64 { return int64(c) }
