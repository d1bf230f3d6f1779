package db4d

// PreparedStatement holds the SQL text, with its '?' markers preserved
// verbatim until bind time, and the command id reserved for it; the
// phase-1 request frame is built from these when Execute is called.
// commandID is fixed at Prepare time; phase 2, if needed, always reuses
// commandID+2.
type PreparedStatement struct {
	driver    *Driver
	sql       string
	commandID int
}

// ExecResult is the outcome of executing a statement: either an update
// count, or a materialised row buffer.
type ExecResult struct {
	Meta ResponseMetadata
	Rows *RowBuffer
	// UpdateCount is valid when Meta.ResultType == ResultUpdateCount.
	UpdateCount int64
}

// FetchRow removes and returns the next row shaped per style. Returns
// errStmtExhausted if r came from an Update-Count reply, which has no
// row buffer at all.
func (r *ExecResult) FetchRow(style FetchStyle) (map[string]interface{}, bool, error) {
	if r.Rows == nil {
		return nil, false, errStmtExhausted
	}
	row, ok := r.Rows.FetchRow(style)
	return row, ok, nil
}

// FetchColumn removes the next row and returns one cell from it by
// column name. Returns errStmtExhausted for an Update-Count reply.
func (r *ExecResult) FetchColumn(name string) (interface{}, bool, error) {
	if r.Rows == nil {
		return nil, false, errStmtExhausted
	}
	v, ok := r.Rows.FetchColumn(name)
	return v, ok, nil
}

// NumInput returns the number of '?' placeholders the statement text
// contains.
func (s *PreparedStatement) NumInput() int {
	n := 0
	for _, r := range s.sql {
		if r == '?' {
			n++
		}
	}
	return n
}

// Execute binds args into the statement text and runs the two-phase
// execute/fetch exchange, reusing the frame id reserved at Prepare
// time.
func (s *PreparedStatement) Execute(args ...Value) (*ExecResult, error) {
	if s.driver.closed.Load() {
		return nil, errConnClosed
	}
	text, err := bindParams(s.sql, args)
	if err != nil {
		return nil, err
	}

	frame := newRequestFrame(s.commandID, "EXECUTE-STATEMENT").
		set("STATEMENT", text).
		set("OUTPUT-MODE", "RELEASE").
		set("FIRST-PAGE-SIZE", "1")

	phase2ID := s.commandID + 2
	return s.driver.runExecute(frame, func() int { return phase2ID })
}

// Close releases the server-side cursor for a given statement id.
func (s *PreparedStatement) Close(statementID int32) error {
	return s.driver.closeCursor(statementID)
}

// runExecute drives the two-phase exchange for an already-built phase-1
// frame: send it, and unless the result is an Update-Count or an empty
// result set, always rebuild phase 2 from frame's structured fields
// (never by textual substitution in the phase-1 bytes) using the id
// nextPhase2ID produces, then re-decode the full page from that
// response. nextPhase2ID is only invoked when phase 2 actually runs, so
// Query's lazy "+2, +2" id bump and Prepare's eager "id, id+2" id
// reservation can share this one code path.
func (d *Driver) runExecute(frame *requestFrame, nextPhase2ID func() int) (*ExecResult, error) {
	meta, _, err := d.roundTripExecute(frame)
	if err != nil {
		return nil, err
	}

	if meta.ResultType == ResultUpdateCount {
		return &ExecResult{Meta: *meta, UpdateCount: meta.RowCount}, nil
	}

	// ResultSet.
	if meta.RowCount == 0 {
		return &ExecResult{Meta: *meta, Rows: newRowBuffer(meta.ColumnNames)}, nil
	}

	frame2 := frame.withCommandID(nextPhase2ID()).setFirstPageSize(meta.RowCount)

	meta2, fullPage, err := d.roundTripExecute(frame2)
	if err != nil {
		return nil, err
	}

	buf := newRowBuffer(meta2.ColumnNames)
	if err := buf.appendRows(fullPage.rows); err != nil {
		return nil, err
	}

	return &ExecResult{Meta: *meta2, Rows: buf}, nil
}

// decodedPage holds the rows decoded immediately after a header block,
// for a Result-Set reply: the server interleaves the binary row
// payload directly after the blank header terminator.
type decodedPage struct {
	rows []Row
}

// roundTripExecute sends frame, consumes its header block, and — for a
// Result-Set reply — decodes rows up to RowCountSent immediately
// following the header.
func (d *Driver) roundTripExecute(frame *requestFrame) (*ResponseMetadata, *decodedPage, error) {
	if err := d.reader.setDeadline(d.cfg.ReadTimeout); err != nil {
		d.markBroken(err)
		return nil, nil, err
	}
	if err := d.write(frame.bytes()); err != nil {
		return nil, nil, err
	}

	meta := &ResponseMetadata{}
	ok, err := readHeaderBlock(d.reader, meta)
	if err != nil {
		d.markBroken(err)
		return nil, nil, err
	}
	if !ok {
		return nil, nil, &StatementError{
			Code:          meta.ErrorCode,
			ComponentCode: meta.ErrorComponentCode,
			Description:   meta.ErrorDescription,
		}
	}

	if meta.ResultType != ResultSet || meta.RowCount == 0 {
		return meta, &decodedPage{}, nil
	}

	page, err := d.decodeRows(meta)
	if err != nil {
		d.markBroken(err)
		return nil, nil, err
	}
	return meta, page, nil
}

// decodeRows decodes meta.RowCountSent rows following the header,
// applying the per-row optional record-id prefix and per-column
// null/value/error status byte.
func (d *Driver) decodeRows(meta *ResponseMetadata) (*decodedPage, error) {
	hasID := meta.hasUpdateableColumn()
	page := &decodedPage{rows: make([]Row, 0, meta.RowCountSent)}

	for r := int64(0); r < meta.RowCountSent; r++ {
		row := make(Row, meta.ColumnCount+1)

		if hasID {
			if _, err := d.reader.readExact(1); err != nil { // skip byte
				return nil, err
			}
			id, err := d.reader.decodeU32()
			if err != nil {
				return nil, err
			}
			row["_ID"] = int64Value(int64(id))
		}

		for i := 0; i < meta.ColumnCount; i++ {
			status, err := d.reader.readExact(1)
			if err != nil {
				return nil, err
			}
			switch status[0] {
			case 0:
				row[meta.ColumnNames[i]] = nullValue()
			case 1:
				v, err := d.reader.decodeColumn(meta.ColumnTypes[i])
				if err != nil {
					return nil, err
				}
				row[meta.ColumnNames[i]] = v
			case 2:
				code, err := d.reader.decodeU64()
				if err != nil {
					return nil, err
				}
				return nil, &DecodeError{Column: i, Code: int32(code)}
			default:
				return nil, errMalformedHeader
			}
		}

		page.rows = append(page.rows, row)
	}

	return page, nil
}
