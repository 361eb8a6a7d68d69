package webcontext

type Key string

const Params Key = "params"
