package opcode

// ArgKind identifies the wire shape of one instruction argument. The
// decoder, encoder and default-constructor are all driven purely by the
// ordered []ArgKind layout for each Opcode; no opcode gets bespoke decode
// logic outside of the one special case (ArgSwitch, handled by the Switch
// instruction alone).
type ArgKind uint8

const (
	ArgReg       ArgKind = iota // a register index
	ArgRegList                 // a count-prefixed list of register indices
	ArgInt                     // ref.Int
	ArgFloat                   // ref.Float
	ArgString                  // ref.String
	ArgBytes                   // byte-pool offset index
	ArgType                    // ref.Type
	ArgGlobal                  // ref.Global
	ArgFun                     // ref.Function
	ArgField                   // ref.Field
	ArgConstruct               // ref.Construct
	ArgBool                    // inline bool, one byte
	ArgJump                    // signed jump offset
	ArgSwitch                  // register + offset table + default, Switch only
)

// layouts gives the ordered argument shape for every opcode. It is the
// single declaration from which Decode, Encode and Default are all
// derived.
var layouts = [opcodeCount][]ArgKind{
	OMov:    {ArgReg, ArgReg},
	OInt:    {ArgReg, ArgInt},
	OFloat:  {ArgReg, ArgFloat},
	OBool:   {ArgReg, ArgBool},
	OBytes:  {ArgReg, ArgBytes},
	OString: {ArgReg, ArgString},
	ONull:   {ArgReg},

	OAdd:  {ArgReg, ArgReg, ArgReg},
	OSub:  {ArgReg, ArgReg, ArgReg},
	OMul:  {ArgReg, ArgReg, ArgReg},
	OSDiv: {ArgReg, ArgReg, ArgReg},
	OUDiv: {ArgReg, ArgReg, ArgReg},
	OSMod: {ArgReg, ArgReg, ArgReg},
	OUMod: {ArgReg, ArgReg, ArgReg},
	OShl:  {ArgReg, ArgReg, ArgReg},
	OSShr: {ArgReg, ArgReg, ArgReg},
	OUShr: {ArgReg, ArgReg, ArgReg},
	OAnd:  {ArgReg, ArgReg, ArgReg},
	OOr:   {ArgReg, ArgReg, ArgReg},
	OXor:  {ArgReg, ArgReg, ArgReg},
	ONeg:  {ArgReg, ArgReg},
	ONot:  {ArgReg, ArgReg},
	OIncr: {ArgReg},
	ODecr: {ArgReg},

	OCall0:           {ArgReg, ArgFun},
	OCall1:           {ArgReg, ArgFun, ArgReg},
	OCall2:           {ArgReg, ArgFun, ArgReg, ArgReg},
	OCall3:           {ArgReg, ArgFun, ArgReg, ArgReg, ArgReg},
	OCall4:           {ArgReg, ArgFun, ArgReg, ArgReg, ArgReg, ArgReg},
	OCallN:           {ArgReg, ArgFun, ArgRegList},
	OCallMethod:      {ArgReg, ArgField, ArgReg, ArgRegList},
	OCallThis:        {ArgReg, ArgField, ArgRegList},
	OCallClosure:     {ArgReg, ArgReg, ArgRegList},
	OStaticClosure:   {ArgReg, ArgFun},
	OInstanceClosure: {ArgReg, ArgFun, ArgReg},
	OVirtualClosure:  {ArgReg, ArgReg, ArgField},

	OField:    {ArgReg, ArgReg, ArgField},
	OSetField: {ArgReg, ArgField, ArgReg},
	OGetThis:  {ArgReg, ArgField},
	OSetThis:  {ArgField, ArgReg},
	ODynGet:   {ArgReg, ArgReg, ArgString},
	ODynSet:   {ArgReg, ArgString, ArgReg},

	OJTrue:    {ArgReg, ArgJump},
	OJFalse:   {ArgReg, ArgJump},
	OJNull:    {ArgReg, ArgJump},
	OJNotNull: {ArgReg, ArgJump},
	OJSLt:     {ArgReg, ArgReg, ArgJump},
	OJSGte:    {ArgReg, ArgReg, ArgJump},
	OJSGt:     {ArgReg, ArgReg, ArgJump},
	OJSLte:    {ArgReg, ArgReg, ArgJump},
	OJULt:     {ArgReg, ArgReg, ArgJump},
	OJUGte:    {ArgReg, ArgReg, ArgJump},
	OJNotLt:   {ArgReg, ArgReg, ArgJump},
	OJNotGte:  {ArgReg, ArgReg, ArgJump},
	OJEq:      {ArgReg, ArgReg, ArgJump},
	OJNotEq:   {ArgReg, ArgReg, ArgJump},
	OJAlways:  {ArgJump},
	OLabel:    {},
	ORet:      {ArgReg},
	OSwitch:   {ArgSwitch},
	OThrow:    {ArgReg},
	ORethrow:  {ArgReg},
	ONullCheck: {ArgReg},
	OTrap:     {ArgReg, ArgJump},
	OEndTrap:  {ArgJump},

	OToDyn:      {ArgReg, ArgReg},
	OToSFloat:   {ArgReg, ArgReg},
	OToUFloat:   {ArgReg, ArgReg},
	OToInt:      {ArgReg, ArgReg},
	OSafeCast:   {ArgReg, ArgReg},
	OUnsafeCast: {ArgReg, ArgReg},
	OToVirtual:  {ArgReg, ArgReg},
	OGetType:    {ArgReg, ArgReg},

	ONew:          {ArgReg},
	OEnumAlloc:    {ArgReg, ArgConstruct},
	OMakeEnum:     {ArgReg, ArgConstruct, ArgRegList},
	OEnumIndex:    {ArgReg, ArgReg},
	OEnumField:    {ArgReg, ArgReg, ArgConstruct, ArgInt},
	OSetEnumField: {ArgReg, ArgConstruct, ArgInt, ArgReg},

	ORef:       {ArgReg, ArgReg},
	OUnref:     {ArgReg, ArgReg},
	OSetRef:    {ArgReg, ArgReg},
	ORefOffset: {ArgReg, ArgReg, ArgInt},
	OArraySize: {ArgReg, ArgReg},
	OGetArray:  {ArgReg, ArgReg, ArgReg},
	OSetArray:  {ArgReg, ArgReg, ArgReg},
	OGetI32:    {ArgReg, ArgReg, ArgReg},
	OGetU8:     {ArgReg, ArgReg, ArgReg},
	OGetU16:    {ArgReg, ArgReg, ArgReg},
	OGetF32:    {ArgReg, ArgReg, ArgReg},
	OGetF64:    {ArgReg, ArgReg, ArgReg},
	OSetI32:    {ArgReg, ArgReg, ArgReg},
	OSetU8:     {ArgReg, ArgReg, ArgReg},
	OSetU16:    {ArgReg, ArgReg, ArgReg},
	OSetF32:    {ArgReg, ArgReg, ArgReg},
	OSetF64:    {ArgReg, ArgReg, ArgReg},

	OGetGlobal: {ArgReg, ArgGlobal},
	OSetGlobal: {ArgGlobal, ArgReg},

	ONop: {},
}

// Layout returns the ordered argument shape declared for op.
func Layout(op Opcode) []ArgKind { return layouts[op] }
